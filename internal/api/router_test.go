package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"example.com/vrp-routing-service/internal/api/dto"
	"example.com/vrp-routing-service/internal/platform/logging"
	"example.com/vrp-routing-service/internal/routing/builder"
	"example.com/vrp-routing-service/internal/routing/cpengine"
	"example.com/vrp-routing-service/internal/routing/model"
)

// fakeService is a hand-rolled rpc.Service double used in place of a
// mocking framework.
type fakeService struct {
	responses []model.RoutingResponse
	err       error
}

func (f *fakeService) Routing(ctx context.Context, req model.RoutingModel) ([]model.RoutingResponse, error) {
	return f.responses, f.err
}

const validBody = `{"durationMatrix":[[0,1],[1,0]],"routingMode":{"type":"depot","payload":{"depot":0}}}`

func TestRoutingHandlerReturnsRoutesOnSuccess(t *testing.T) {
	svc := &fakeService{responses: []model.RoutingResponse{{Route: []int{0, 1, 0}, TotalDuration: 2}}}
	router := NewRouter(svc, logging.New())

	req := httptest.NewRequest(http.MethodPost, "/v1/routing", strings.NewReader(validBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	var got dto.RoutingEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if got.Status != "success" || len(got.Data) != 1 || got.Data[0].TotalDuration != 2 {
		t.Errorf("response = %+v, want one route with total_duration 2", got)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Errorf("X-Request-Id header was not set")
	}
}

func TestRoutingHandlerRejectsMalformedJSON(t *testing.T) {
	router := NewRouter(&fakeService{}, logging.New())

	req := httptest.NewRequest(http.MethodPost, "/v1/routing", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestRoutingHandlerRejectsTrailingData(t *testing.T) {
	router := NewRouter(&fakeService{}, logging.New())

	req := httptest.NewRequest(http.MethodPost, "/v1/routing", strings.NewReader(validBody+`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestRoutingHandlerMapsValidationErrorTo400(t *testing.T) {
	svc := &fakeService{err: &builder.ValidationError{Invariant: "matrix.square", Message: "matrix must be square"}}
	router := NewRouter(svc, logging.New())

	req := httptest.NewRequest(http.MethodPost, "/v1/routing", strings.NewReader(validBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	var body dto.ValidationErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body.Code != "VALIDATION_ERROR" || body.Invariant != "matrix.square" {
		t.Errorf("body = %+v, want code VALIDATION_ERROR invariant matrix.square", body)
	}
}

func TestRoutingHandlerMapsNoSolutionErrorTo500(t *testing.T) {
	svc := &fakeService{err: &cpengine.NoSolutionError{TimeLimitSeconds: 3}}
	router := NewRouter(svc, logging.New())

	req := httptest.NewRequest(http.MethodPost, "/v1/routing", strings.NewReader(validBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	var body dto.SolveErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body.Code != "NO_SOLUTION" || body.TimeLimitSeconds != 3 {
		t.Errorf("body = %+v, want code NO_SOLUTION time_limit_seconds 3", body)
	}
}

func TestRoutingHandlerRejectsNonPost(t *testing.T) {
	router := NewRouter(&fakeService{}, logging.New())

	req := httptest.NewRequest(http.MethodGet, "/v1/routing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := NewRouter(&fakeService{}, logging.New())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

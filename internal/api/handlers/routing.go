package handlers

import (
	"errors"
	"io"
	"net/http"

	"example.com/vrp-routing-service/internal/api/dto"
	"example.com/vrp-routing-service/internal/platform/logging"
	"example.com/vrp-routing-service/internal/routing/builder"
	"example.com/vrp-routing-service/internal/routing/cpengine"
	"example.com/vrp-routing-service/internal/routing/ingest"
	"example.com/vrp-routing-service/internal/rpc"
)

// maxRequestBodyBytes bounds how much a caller can make the handler read
// before it gives up, independent of any solver-side limit.
const maxRequestBodyBytes = 16 << 20 // 16 MiB

// RoutingHandler serves POST /v1/routing.
type RoutingHandler struct {
	Service rpc.Service
	Log     *logging.Logger
}

// Routing decodes a routing request, runs it through the routing service,
// and writes the resulting routes (or the first error encountered) as
// JSON.
func (h *RoutingHandler) Routing(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	log := h.Log.Scoped(reqID, "ingest")

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, r, log, http.StatusMethodNotAllowed, map[string]string{"code": "METHOD_NOT_ALLOWED", "errors": "method not allowed"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes+1))
	r.Body.Close()
	if err != nil {
		writeJSON(w, r, log, http.StatusBadRequest, &ingest.ParseError{Key: "$", Values: []string{"readable body"}})
		return
	}
	if len(body) > maxRequestBodyBytes {
		writeJSON(w, r, log, http.StatusBadRequest, &ingest.ParseError{Key: "$", Values: []string{"body under 16MiB"}})
		return
	}
	if !ensureSingleJSONObject(body) {
		writeJSON(w, r, log, http.StatusBadRequest, &ingest.ParseError{Key: "$", Values: []string{"a single JSON object"}})
		return
	}

	reqModel, err := ingest.FromJSON(body)
	if err != nil {
		writeJSON(w, r, log, http.StatusBadRequest, err)
		return
	}

	log = h.Log.Scoped(reqID, "solve")
	responses, err := h.Service.Routing(r.Context(), reqModel)
	if err != nil {
		h.writeSolveError(w, r, log, err)
		return
	}

	writeJSON(w, r, log, http.StatusOK, dto.FromRoutingResponses(responses))
}

func (h *RoutingHandler) writeSolveError(w http.ResponseWriter, r *http.Request, log *logging.Logger, err error) {
	var ve *builder.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, r, log, http.StatusBadRequest, dto.NewValidationErrorBody(ve))
		return
	}

	var nse *cpengine.NoSolutionError
	if errors.As(err, &nse) {
		writeJSON(w, r, log, http.StatusInternalServerError, dto.NewSolveErrorBody(nse))
		return
	}

	log.Printf("unexpected solve error: %v", err)
	writeJSON(w, r, log, http.StatusInternalServerError, dto.NewInternalErrorBody())
}

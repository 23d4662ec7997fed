package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"example.com/vrp-routing-service/internal/platform/logging"
)

func writeJSON(w http.ResponseWriter, r *http.Request, log *logging.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

// ensureSingleJSONObject checks that body contains only one JSON object: a
// decode of a second value from the same stream must hit EOF, or the
// caller sent trailing garbage after their object.
func ensureSingleJSONObject(body []byte) bool {
	dec := json.NewDecoder(bytes.NewReader(body))
	var first any
	if err := dec.Decode(&first); err != nil {
		return false
	}
	var second any
	err := dec.Decode(&second)
	return err == io.EOF
}

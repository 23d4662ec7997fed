package ingest

import (
	"encoding/json"
	"fmt"
)

// ParseError reports that a routing request could not be decoded. Key is a
// dotted path into the request identifying the offending field (e.g.
// "withTimeWindows.timeWindows[3]"). Values, when non-nil, lists the shapes
// that would have been accepted there.
//
// MarshalJSON reproduces the two response shapes the original ingestion
// contract distinguishes: a bare "which key" report when there is nothing
// more useful to say, and a richer report naming the accepted shapes when
// there is.
type ParseError struct {
	Key    string
	Values []string
}

func (e *ParseError) Error() string {
	if len(e.Values) == 0 {
		return fmt.Sprintf("parse error: %s", e.Key)
	}
	return fmt.Sprintf("parse error: %s (expected one of %v)", e.Key, e.Values)
}

func (e *ParseError) MarshalJSON() ([]byte, error) {
	if len(e.Values) == 0 {
		return json.Marshal(struct {
			Code   string `json:"code"`
			Errors string `json:"errors"`
		}{Code: "PARSE_ERROR", Errors: e.Key})
	}
	return json.Marshal(struct {
		Code   string `json:"code"`
		Errors string `json:"errors"`
		Data   struct {
			Key    string   `json:"key"`
			Values []string `json:"values"`
		} `json:"data"`
	}{
		Code:   "PARSE_ERROR",
		Errors: "invalid payload",
		Data: struct {
			Key    string   `json:"key"`
			Values []string `json:"values"`
		}{Key: e.Key, Values: e.Values},
	})
}

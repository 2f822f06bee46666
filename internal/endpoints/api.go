package endpoints

import (
	"encoding/json"
	"net/http"
	"reflect"
)

// APIResponse is the envelope of every history response.
type APIResponse struct {
	Status    bool        `json:"status"`
	Count     int         `json:"count,omitempty"`
	Value     interface{} `json:"value,omitempty"`
	Error     string      `json:"error,omitempty"`
	ErrorCode int         `json:"error_code"`
}

func writeError(w http.ResponseWriter, err error, statusCode int) {
	writeJSON(w, statusCode, APIResponse{
		Status:    false,
		Error:     err.Error(),
		ErrorCode: GetErrorCode(err),
	})
}

// writeResult sets Count when result is a slice.
func writeResult(w http.ResponseWriter, result interface{}) {
	res := APIResponse{
		Status:    true,
		Value:     result,
		ErrorCode: GetErrorCode(nil),
	}
	if v := reflect.ValueOf(result); v.Kind() == reflect.Slice {
		res.Count = v.Len()
	}
	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, statusCode int, res APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(res)
}

package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// JSON writes v as JSON with the given status code. Content-Type and
// X-Content-Type-Options headers are set automatically. Encoding errors are
// silently discarded: use this for handler responses, not for streaming.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONError writes a standard {"error": message} JSON response.
func JSONError(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// DecodeJSON decodes a single JSON object from the request body into dst.
// It returns the status a handler should answer with on failure: 413 when
// the body exceeds RequestBodyLimit, 400 otherwise.
func DecodeJSON(r *http.Request, dst any) (int, error) {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return http.StatusRequestEntityTooLarge, fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		case errors.Is(err, io.EOF):
			return http.StatusBadRequest, errors.New("request body is empty")
		default:
			return http.StatusBadRequest, errors.New("Invalid JSON")
		}
	}
	if dec.More() {
		return http.StatusBadRequest, errors.New("request body must contain a single JSON object")
	}
	return http.StatusOK, nil
}

// Package http holds the JSON response helpers shared by the API handlers.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
)

// maxBodyBytes bounds request bodies; a plan request with hundreds of debts is well under it
const maxBodyBytes = 1 << 20

// JSON writes v with the given status code
func JSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// OK writes v with status 200
func OK(w http.ResponseWriter, v any) {
	JSON(w, http.StatusOK, v)
}

// ErrorResponse sends a plain-text error response
func ErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	log.Printf("Error: %s (status %d)", message, statusCode)
	http.Error(w, message, statusCode)
}

// DecodeJSON reads the request body into v, rejecting unknown fields
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// QueryInt parses an integer query parameter, returning def when it is absent
func QueryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: must be an integer", key)
	}
	return n, nil
}

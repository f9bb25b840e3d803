package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/middleware"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/response"
)

// maxBodyBytes caps request bodies. Every request body in the API is a small JSON object.
const maxBodyBytes = 1 << 20

// parseJSON decodes the request body into T. Unknown fields and trailing data are rejected.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T
	if r.Body == nil {
		return req, errors.New("request body is empty")
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return req, errors.New("request body is empty")
		}
		return req, err
	}
	if dec.More() {
		return req, fmt.Errorf("request body must contain a single JSON object")
	}
	return req, nil
}

// requireUser returns the authenticated user ID, writing 401 when the route
// was mounted without the authentication middleware.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.RespondError(w, http.StatusUnauthorized, "unauthorized", "")
		return "", false
	}
	return userID, true
}

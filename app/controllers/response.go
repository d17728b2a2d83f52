package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"inkwell/app/logger"
	"inkwell/app/services"
)

const maxJSONBody = 1 << 20

// envelope is the body of every API response.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Message string      `json:"message,omitempty"`
}

func sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func sendData(w http.ResponseWriter, status int, data interface{}) {
	sendJSON(w, status, envelope{Success: true, Data: data})
}

func sendList[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	count := len(items)
	sendJSON(w, http.StatusOK, envelope{Success: true, Count: &count, Data: items})
}

func sendMessage(w http.ResponseWriter, status int, message string) {
	sendJSON(w, status, envelope{Success: status < http.StatusBadRequest, Message: message})
}

// sendError writes err with the status of its kind. Errors of unknown kind
// are logged and reported as a generic 500.
func sendError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	status := StatusFor(err)
	var svcErr *services.Error
	if status == http.StatusInternalServerError || !errors.As(err, &svcErr) {
		log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		sendMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}
	sendMessage(w, status, svcErr.Error())
}

// StatusFor maps a service error kind to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a JSON body into dst. An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	err := json.NewDecoder(r.Body).Decode(dst)
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return nil
	default:
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return services.Errorf(services.ErrValidation, "Request body is too large")
		}
		return services.Errorf(services.ErrValidation, "Invalid JSON body")
	}
}

package http

import (
	"net/http"
	"strconv"
)

// FieldError mirrors the per-field validation errors the API returns with
// status 422.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type validator struct {
	errors []FieldError
}

func (v *validator) check(ok bool, field, message string) {
	if !ok {
		v.errors = append(v.errors, FieldError{Field: field, Message: message})
	}
}

// respond writes the 422 error list when any check failed and reports
// whether the request may proceed.
func (v *validator) respond(w http.ResponseWriter) bool {
	if len(v.errors) == 0 {
		return true
	}
	writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"errors": v.errors})
	return false
}

// parseGameID validates the path id; violations are a validation error, not
// a routing miss.
func parseGameID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/geauxvirtual/hapi/internal/common"
)

// response is the status/reason envelope used for errors and simple acks.
type response struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeEnvelope(w http.ResponseWriter, code int, status, reason string) {
	writeJSON(w, code, response{Status: status, Reason: reason})
}

// writeError maps the sentinel error taxonomy onto HTTP status codes and the
// fixed reason strings of the public contract.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorLengthRequired):
		writeEnvelope(w, http.StatusLengthRequired, "error", "Content-Length is required")
	case errors.Is(err, common.ErrorPayloadTooLarge):
		writeEnvelope(w, http.StatusRequestEntityTooLarge, "error", "Maximum payload size is 10MB")
	case errors.Is(err, common.ErrorValidation):
		writeEnvelope(w, http.StatusBadRequest, "error", "The request could not be understood by the server")
	case errors.Is(err, common.ErrorUnauthorized):
		writeEnvelope(w, http.StatusUnauthorized, "error", "unauthorized")
	case errors.Is(err, common.ErrorConflict):
		writeEnvelope(w, http.StatusConflict, "error", "Username already exists")
	default:
		writeEnvelope(w, http.StatusInternalServerError, "error", "internal server error")
	}
}

package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/codescope/pkg/errors"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: msg, Code: code})
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeFetchFailed, errors.ErrCodeTimeout:
		return http.StatusServiceUnavailable
	}
	if errors.IsClientError(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// fail writes err. Internal errors are logged and never echoed.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
		if status == http.StatusServiceUnavailable {
			writeError(w, status, string(errors.ErrCodeFetchFailed), LoadFailedMessage)
			return
		}
		writeError(w, status, string(errors.ErrCodeInternal), "internal error")
		return
	}
	writeError(w, status, string(errors.GetCode(err)), errors.UserMessage(err))
}

// unavailable reports a missing dataset.
func (s *Server) unavailable(w http.ResponseWriter) {
	writeError(w, http.StatusServiceUnavailable, string(errors.ErrCodeFetchFailed), LoadFailedMessage)
}

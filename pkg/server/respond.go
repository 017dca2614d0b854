package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	scerrors "github.com/matzehuels/scenegraph/pkg/errors"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Code    scerrors.Code `json:"code"`
	Message string        `json:"message"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(code scerrors.Code) int {
	switch code {
	case scerrors.ErrCodeInvalidInput,
		scerrors.ErrCodeInvalidNodeID,
		scerrors.ErrCodeInvalidFormat,
		scerrors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case scerrors.ErrCodeInvalidScene,
		scerrors.ErrCodeMissingParent,
		scerrors.ErrCodeCycle:
		return http.StatusUnprocessableEntity
	case scerrors.ErrCodeDuplicateNode:
		return http.StatusConflict
	case scerrors.ErrCodeNotFound,
		scerrors.ErrCodeSceneNotFound,
		scerrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case scerrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, logger *log.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("encode response", "err", err)
	}
}

// respondError writes err as an ErrorResponse. Errors without a code are
// reported as INTERNAL_ERROR and their text is not exposed.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		respondJSON(w, s.logger, http.StatusRequestEntityTooLarge, ErrorResponse{
			Code:    scerrors.ErrCodeInvalidInput,
			Message: "request body too large",
		})
		return
	}

	code := scerrors.GetCode(err)
	msg := scerrors.UserMessage(err)
	if code == "" {
		code = scerrors.ErrCodeInternal
		msg = "internal error"
	}
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	respondJSON(w, s.logger, status, ErrorResponse{Code: code, Message: msg})
}

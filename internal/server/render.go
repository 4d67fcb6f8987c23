package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"homebid/pkg/types"

	"github.com/sirupsen/logrus"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

func (s *Service) writeMessage(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}

func (s *Service) internalServerError(w http.ResponseWriter) {
	s.writeMessage(w, http.StatusInternalServerError, "internal server error")
}

// writeError turns the lifecycle error taxonomy into a response. Backend
// client errors keep their status and message; anything else from the
// backend is reported as a bad gateway.
func (s *Service) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *types.ValidationError
		serr *types.InvalidStateError
		terr *types.TransportError
	)

	switch {
	case errors.As(err, &verr):
		s.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "validation failed", Fields: verr.Fields})
	case errors.As(err, &serr):
		s.writeMessage(w, http.StatusConflict, serr.Error())
	case errors.Is(err, types.ErrAuthRequired):
		s.writeMessage(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, types.ErrJobNotFound), errors.Is(err, types.ErrBidNotFound), errors.Is(err, types.ErrPendingPaymentNotFound):
		s.writeMessage(w, http.StatusNotFound, "not found")
	case errors.As(err, &terr):
		status := terr.StatusCode
		if status < 400 || status >= 500 {
			status = http.StatusBadGateway
		}
		s.logger.WithError(err).WithFields(logrus.Fields{
			"path":           r.URL.Path,
			"backend_status": terr.StatusCode,
		}).Warn("backend request failed")
		s.writeMessage(w, status, terr.Message)
	default:
		s.logger.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		s.internalServerError(w)
	}
}

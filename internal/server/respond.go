package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"taskcenter/internal/logging"
	"taskcenter/internal/services"
)

const msgNotFound = "Endpoint not found"

type textResponse struct {
	Text    string `json:"text"`
	Success bool   `json:"success"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

// writeRaw sends an already encoded JSON body.
func (s *Server) writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		s.logger.Debug("response write failed", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// fail converts err to a status and {"error": message} body.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := services.HTTPStatus(err)
	message := services.Message(err)
	logger := logging.WithContext(r.Context(), s.logger)
	if status >= http.StatusInternalServerError {
		logging.ErrorWithContext(logger, "request failed", "request_failed",
			logging.String("path", r.URL.Path),
			logging.Int("status", status),
			logging.Error(err),
		)
	} else {
		logger.Warn("request rejected",
			logging.String(logging.FieldEventType, "request_rejected"),
			logging.String("path", r.URL.Path),
			logging.Int("status", status),
			logging.Error(err),
		)
	}
	s.writeError(w, status, message)
}

// readBody reads the request body up to the configured limit. Oversized
// bodies get 413 and ok=false.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err == nil {
		return body, true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		s.writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return nil, false
	}
	s.fail(w, r, services.Wrap(services.ErrValidation, "read body", "Failed to read request body", err))
	return nil, false
}

// decodeJSON reads and decodes a JSON request body into dst.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, ok := s.readBody(w, r)
	if !ok {
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		s.fail(w, r, services.Wrap(services.ErrValidation, "decode body", "Invalid JSON: "+err.Error(), err))
		return false
	}
	return true
}

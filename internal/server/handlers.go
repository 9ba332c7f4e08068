package server

import (
	"net/http"
	"strings"

	"taskcenter/internal/assistant"
	"taskcenter/internal/services"
	"taskcenter/internal/store"
	"taskcenter/internal/upload"
)

func (s *Server) handleDataSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Snapshot()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleDataSaveAll(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	if _, err := s.store.SaveAll(r.Context(), body); err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (s *Server) collection(w http.ResponseWriter, r *http.Request) (store.Collection, bool) {
	c, ok := store.ParseCollection(r.PathValue("collection"))
	if !ok {
		s.writeError(w, http.StatusNotFound, msgNotFound)
	}
	return c, ok
}

func (s *Server) handleDataGet(w http.ResponseWriter, r *http.Request) {
	c, ok := s.collection(w, r)
	if !ok {
		return
	}
	doc, err := s.store.Get(c)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	s.writeRaw(w, http.StatusOK, doc)
}

func (s *Server) handleDataSave(w http.ResponseWriter, r *http.Request) {
	c, ok := s.collection(w, r)
	if !ok {
		return
	}
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	if err := s.store.Save(r.Context(), c, body); err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req assistant.GenerateRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	body, err := s.assistant.Generate(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeRaw(w, http.StatusOK, body)
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req assistant.SummarizeRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	out, err := s.assistant.Summarize(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeRaw(w, http.StatusOK, out)
}

func (s *Server) handleFormatTranscript(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !s.decodeJSON(w, r, &req) {
		return
	}
	text, err := s.assistant.FormatTranscript(r.Context(), req.Text)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, textResponse{Text: text, Success: true})
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	audio, err := upload.FromRequest(r.Header.Get("Content-Type"), body)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !s.keyConfigured {
		s.fail(w, r, services.Wrap(services.ErrConfiguration, "transcribe", "OpenAI API Key is missing", nil))
		return
	}
	result, err := s.transcriber.Run(r.Context(), audio)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, textResponse{Text: result.Text, Success: true})
}

// handleFallback serves static assets for GET and HEAD; everything else,
// including any unmatched /api path, is a JSON 404.
func (s *Server) handleFallback(w http.ResponseWriter, r *http.Request) {
	if s.static == nil || isAPIPath(r.URL.Path) || (r.Method != http.MethodGet && r.Method != http.MethodHead) {
		s.writeError(w, http.StatusNotFound, msgNotFound)
		return
	}
	s.static.ServeHTTP(w, r)
}

func isAPIPath(urlPath string) bool {
	return urlPath == "/api" || strings.HasPrefix(urlPath, "/api/")
}

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/dygy/tunescribe/internal/errors"
	"github.com/dygy/tunescribe/internal/workspace"
)

const defaultMaxUploadSize = 100 * 1024 * 1024 // 100MB

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleConvert accepts an audio upload and converts it to MIDI
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadSize)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid upload. Maximum size is %dMB.", s.config.MaxUploadSize>>20))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Please upload an audio file in the \"file\" field.")
		return
	}
	defer file.Close()

	ws, err := workspace.Create()
	if err != nil {
		s.logger.WithError(err).Error("create workspace")
		writeError(w, http.StatusInternalServerError, "Failed to save file.")
		return
	}
	defer ws.Cleanup()

	inputPath, err := ws.Save(file, header.Filename)
	if err != nil {
		s.logger.WithError(err).Error("save upload")
		writeError(w, http.StatusInternalServerError, "Failed to save file.")
		return
	}

	result, err := s.gateway.ConvertToMidi(r.Context(), inputPath)
	if err != nil {
		s.logger.WithError(err).WithField("file", header.Filename).Error("conversion failed")
		writeError(w, http.StatusInternalServerError, "Conversion failed.")
		return
	}
	if !result.OK() {
		writeError(w, http.StatusUnsupportedMediaType, result.Reason)
		return
	}

	rec, err := s.history.Record(r.Context(), header.Filename, result.Path, result.Notes)
	if err != nil {
		s.logger.WithError(err).Error("record conversion")
		writeError(w, http.StatusInternalServerError, "Failed to record conversion.")
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

// handleList returns recent conversions
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := s.history.List(r.Context(), limit)
	if err != nil {
		s.logger.WithError(err).Error("list conversions")
		writeError(w, http.StatusInternalServerError, "Failed to list conversions.")
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// handleDownload serves the MIDI file of a conversion
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	rec, err := s.history.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, apperrors.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Conversion not found.")
		return
	}
	if err != nil {
		s.logger.WithError(err).Error("get conversion")
		writeError(w, http.StatusInternalServerError, "Failed to load conversion.")
		return
	}

	if _, err := os.Stat(rec.MIDIPath); os.IsNotExist(err) {
		writeError(w, http.StatusNotFound, "MIDI file not available.")
		return
	}

	w.Header().Set("Content-Type", "audio/midi")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(rec.MIDIPath)))
	http.ServeFile(w, r, rec.MIDIPath)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bobarin/echoverse/internal/models"
	"github.com/bobarin/echoverse/internal/pipeline"
	"github.com/bobarin/echoverse/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

var errBadInput = errors.New("invalid narration input")

type Handler struct {
	pipeline  *pipeline.Pipeline
	store     session.Store
	maxUpload int64
}

func NewHandler(p *pipeline.Pipeline, store session.Store, maxUpload int64) *Handler {
	return &Handler{
		pipeline:  p,
		store:     store,
		maxUpload: maxUpload,
	}
}

// GetOptions handles GET /v1/options
func (h *Handler) GetOptions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.OptionsResponse{
		Tones:  models.Tones(),
		Voices: models.Voices(),
	})
}

// CreateNarration handles POST /v1/narrations
// Accepts JSON {text, tone, voice} or a multipart form with text or a .txt file upload.
func (h *Handler) CreateNarration(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	req, err := decodeNarrationRequest(r, h.maxUpload)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Input exceeds %d bytes", tooLarge.Limit))
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	tone, err := models.ParseTone(req.Tone)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid tone. Allowed: %s", joinTones()))
		return
	}
	voice, err := models.ParseVoice(req.Voice)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid voice. Allowed: %s", joinVoices()))
		return
	}

	sessionID := SessionID(r.Context())
	history, err := h.store.Load(r.Context(), sessionID)
	if err != nil {
		slog.Error("failed to load session history", "session", sessionID, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to load session history")
		return
	}

	out, next := h.pipeline.Run(r.Context(), history, pipeline.Request{
		Text:  req.Text,
		Tone:  tone,
		Voice: voice,
	})

	resp := models.CreateNarrationResponse{
		ToneApplied: out.ToneApplied,
		Notices:     out.Notices,
	}
	if resp.Notices == nil {
		resp.Notices = []models.Notice{}
	}

	switch {
	case errors.Is(out.Err, pipeline.ErrEmptyText):
		respondJSON(w, http.StatusUnprocessableEntity, resp)
		return
	case out.Narration == nil:
		respondJSON(w, http.StatusBadGateway, resp)
		return
	}

	// The store appends only what this run added, so concurrent requests in
	// one session never overwrite each other's records.
	for n := range next.Since(history) {
		if err := h.store.Append(r.Context(), sessionID, n); err != nil {
			slog.Error("failed to store narration", "session", sessionID, "id", n.ID(), "error", err)
			respondError(w, http.StatusInternalServerError, "Failed to store narration")
			return
		}
	}

	summary := toNarrationResponse(out.Narration)
	resp.Narration = &summary
	respondJSON(w, http.StatusCreated, resp)
}

// ListNarrations handles GET /v1/narrations
// Returns the session's narrations, most recent first.
func (h *Handler) ListNarrations(w http.ResponseWriter, r *http.Request) {
	history, err := h.store.Load(r.Context(), SessionID(r.Context()))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load session history")
		return
	}

	narrations := make([]models.NarrationResponse, 0, history.Len())
	for n := range history.Newest() {
		narrations = append(narrations, toNarrationResponse(n))
	}

	respondJSON(w, http.StatusOK, models.ListNarrationsResponse{
		Narrations: narrations,
		Total:      len(narrations),
	})
}

// GetNarrationAudio handles GET /v1/narrations/{id}/audio
func (h *Handler) GetNarrationAudio(w http.ResponseWriter, r *http.Request) {
	n, ok := h.findNarration(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Disposition", "inline")
	http.ServeContent(w, r, n.DownloadName(), n.CreatedAt(), bytes.NewReader(n.Audio()))
}

// DownloadNarration handles GET /v1/narrations/{id}/download
func (h *Handler) DownloadNarration(w http.ResponseWriter, r *http.Request) {
	n, ok := h.findNarration(w, r)
	if !ok {
		return
	}

	audio := n.Audio()
	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": n.DownloadName()}))
	w.Header().Set("Content-Length", strconv.Itoa(len(audio)))
	w.WriteHeader(http.StatusOK)
	w.Write(audio)
}

// findNarration looks up {id} in the caller's own session history.
func (h *Handler) findNarration(w http.ResponseWriter, r *http.Request) (*models.Narration, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid narration ID")
		return nil, false
	}

	history, err := h.store.Load(r.Context(), SessionID(r.Context()))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load session history")
		return nil, false
	}

	for n := range history.Newest() {
		if n.ID() == id {
			return n, true
		}
	}

	respondError(w, http.StatusNotFound, "Narration not found")
	return nil, false
}

func decodeNarrationRequest(r *http.Request, maxUpload int64) (models.CreateNarrationRequest, error) {
	var req models.CreateNarrationRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxUpload); err != nil {
			return req, formError(err)
		}
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return req, formError(err)
		}
	default:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return req, err
			}
			return req, fmt.Errorf("%w: invalid request body", errBadInput)
		}
		return req, nil
	}

	req.Text = r.FormValue("text")
	req.Tone = r.FormValue("tone")
	req.Voice = r.FormValue("voice")

	// An uploaded file replaces pasted text.
	file, header, err := r.FormFile("file")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return req, nil
	case err != nil:
		return req, formError(err)
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".txt") {
		return req, fmt.Errorf("%w: only .txt files are accepted", errBadInput)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return req, formError(err)
	}
	if !utf8.Valid(data) {
		return req, fmt.Errorf("%w: file is not valid UTF-8 text", errBadInput)
	}

	req.Text = string(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
	return req, nil
}

func formError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	return fmt.Errorf("%w: malformed form", errBadInput)
}

func toNarrationResponse(n *models.Narration) models.NarrationResponse {
	base := "/v1/narrations/" + n.ID().String()
	return models.NarrationResponse{
		ID:            n.ID(),
		OriginalText:  n.OriginalText(),
		RewrittenText: n.RewrittenText(),
		Tone:          n.Tone(),
		Voice:         n.Voice(),
		CreatedAt:     n.CreatedAt(),
		AudioBytes:    n.AudioSize(),
		AudioURL:      base + "/audio",
		DownloadURL:   base + "/download",
		DownloadName:  n.DownloadName(),
	}
}

func joinTones() string {
	names := make([]string, 0, len(models.Tones()))
	for _, t := range models.Tones() {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}

func joinVoices() string {
	names := make([]string, 0, len(models.Voices()))
	for _, v := range models.Voices() {
		names = append(names, string(v))
	}
	return strings.Join(names, ", ")
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// Health check
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

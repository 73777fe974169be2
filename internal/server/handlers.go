package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/workcard/pkg/errors"
	"github.com/matzehuels/workcard/pkg/pipeline"
	"github.com/matzehuels/workcard/pkg/record"
)

type renderRequest struct {
	Record  *record.Work `json:"record"`
	Variant string       `json:"variant,omitempty"`
}

type batchRequest struct {
	Records []record.Work `json:"records"`
	Variant string        `json:"variant,omitempty"`
}

type cardResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	Image       string    `json:"image"`
	URL         string    `json:"url"`
	Theme       string    `json:"theme"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	GeneratedAt time.Time `json:"generated_at"`
	Degraded    []string  `json:"degraded"`
}

type outcomeResponse struct {
	ID    int64         `json:"id"`
	Card  *cardResponse `json:"card,omitempty"`
	Error *errorBody    `json:"error,omitempty"`
}

func newCardResponse(c *pipeline.Card) *cardResponse {
	name := filepath.Base(c.Path)
	b := c.Image.Bounds()
	degraded := c.Degraded
	if degraded == nil {
		degraded = []string{}
	}
	return &cardResponse{
		ID:          c.RecordID,
		Name:        name,
		Path:        c.Path,
		Image:       "/v1/cards/" + name,
		URL:         c.DetailURL,
		Theme:       c.Theme,
		Width:       b.Dx(),
		Height:      b.Dy(),
		GeneratedAt: c.GeneratedAt,
		Degraded:    degraded,
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// decode reads a JSON body into v, writing the error response itself when it
// returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "request body too large", nil)
			return false
		}
		writeError(w, r, http.StatusBadRequest, string(errors.ErrCodeInvalidInput), "invalid JSON body: "+err.Error(), nil)
		return false
	}
	return true
}

func (s *Server) renderCard(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Record == nil {
		writeError(w, r, http.StatusBadRequest, string(errors.ErrCodeInvalidInput), "record is required", nil)
		return
	}

	card, err := s.renderer.Render(r.Context(), req.Record, req.Variant)
	if err != nil {
		s.logger.Warn("render failed", "id", req.Record.ID, "error", err, "request_id", RequestID(r.Context()))
		writeErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, newCardResponse(card))
}

func (s *Server) renderBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.Records) == 0 {
		writeError(w, r, http.StatusBadRequest, string(errors.ErrCodeInvalidInput), "records is required", nil)
		return
	}
	if len(req.Records) > s.cfg.MaxBatch {
		writeError(w, r, http.StatusBadRequest, string(errors.ErrCodeInvalidInput), "too many records in one batch", []errorDetail{
			{Field: "records", Message: fmt.Sprintf("at most %d records", s.cfg.MaxBatch)},
		})
		return
	}

	outcomes := s.renderer.RenderBatch(r.Context(), req.Records, req.Variant)
	resp := make([]outcomeResponse, len(outcomes))
	failed := 0
	for i, o := range outcomes {
		resp[i].ID = o.RecordID
		if o.Err != nil {
			failed++
			code := errors.GetCode(o.Err)
			if code == "" {
				code = errors.ErrCodeInternal
			}
			resp[i].Error = &errorBody{Code: string(code), Message: errors.UserMessage(o.Err), Details: fieldDetails(o.Err)}
			continue
		}
		resp[i].Card = newCardResponse(o.Card)
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"outcomes": resp,
		"total":    len(resp),
		"failed":   failed,
	})
}

func (s *Server) serveCard(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := errors.ValidateCardFilename(name); err != nil {
		writeErr(w, r, err)
		return
	}

	f, err := os.Open(filepath.Join(s.renderer.OutputDir(), name))
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			writeError(w, r, http.StatusNotFound, string(errors.ErrCodeNotFound), "card "+name+" not found", nil)
			return
		}
		s.logger.Error("open card", "name", name, "error", err)
		writeError(w, r, http.StatusInternalServerError, string(errors.ErrCodeInternal), "could not read card", nil)
		return
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil || !fi.Mode().IsRegular() {
		writeError(w, r, http.StatusNotFound, string(errors.ErrCodeNotFound), "card "+name+" not found", nil)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	http.ServeContent(w, r, name, fi.ModTime(), f)
}

// Package server handles HTTP requests and middleware.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"

	"github.com/woozymasta/leafview/internal/geo"
	"github.com/woozymasta/leafview/internal/view"

	"github.com/rs/zerolog/log"
)

// RenderRequest is the body accepted by the render endpoints.
type RenderRequest struct {
	Options    map[string]any   `json:"options,omitempty"`
	Title      string           `json:"title,omitempty"`
	Geometries []geo.Descriptor `json:"geometries"`
}

// RenderResponse is returned by HandleRender.
type RenderResponse struct {
	Bundle      map[string]string `json:"bundle"`
	ContentType string            `json:"content_type"`
	Markup      string            `json:"markup"`
	Text        string            `json:"text"`
	ID          string            `json:"id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleIndex serves a short usage page.
func (s *ServerContext) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	etag := fmt.Sprintf(`"%x"`, len(s.IndexHTML))

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(s.IndexHTML)
}

// HandleRender renders the posted view and answers with the display bundle as JSON.
func (s *ServerContext) HandleRender(w http.ResponseWriter, r *http.Request) {
	v, _, ok := s.decodeView(w, r)
	if !ok {
		return
	}

	res, err := s.Renderer.Render(v)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(RenderResponse{
		Bundle:      res.MIMEBundle(),
		ContentType: res.ContentType,
		Markup:      res.Markup,
		Text:        res.Text,
		ID:          res.ID,
	})
}

// HandlePage renders the posted view as a standalone HTML document.
func (s *ServerContext) HandlePage(w http.ResponseWriter, r *http.Request) {
	v, title, ok := s.decodeView(w, r)
	if !ok {
		return
	}
	if title == "" {
		title = s.Config.Server.Title
	}

	page, err := s.Renderer.Page(v, title)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(page))
}

func (s *ServerContext) decodeView(w http.ResponseWriter, r *http.Request) (*view.View, string, bool) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return nil, "", false
	}

	var req RenderRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.MaxBody))
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		status := http.StatusBadRequest
		switch {
		case errors.As(err, &tooLarge):
			status = http.StatusRequestEntityTooLarge
		case errors.Is(err, geo.ErrInvalidGeometry):
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, fmt.Errorf("decode request: %w", err))
		return nil, "", false
	}

	v, err := view.FromMap(req.Geometries, req.Options)
	if err != nil {
		writeError(w, statusFor(err), err)
		return nil, "", false
	}

	return v, req.Title, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, geo.ErrInvalidGeometry),
		errors.Is(err, view.ErrMissingOptionValue),
		errors.Is(err, view.ErrOptionValue):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Msg("Render failed")
	} else {
		log.Debug().Err(err).Int("status", status).Msg("Rejected render request")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: err.Error()})
}

func indexPage(title string) string {
	t := html.EscapeString(title)
	return `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>` + t + `</title></head><body>` +
		`<h1>` + t + `</h1>` +
		`<p>POST <code>/api/render</code> with <code>{"geometries": [["points", [[lat, lon]]]], "options": {"color": "red"}}</code> to get a display bundle.</p>` +
		`<p>POST the same body to <code>/render</code> for a standalone HTML page.</p>` +
		`</body></html>`
}

// Package handler contains the HTTP request handlers. Handlers parse form
// input, call services, and pick a template to render; no business rules
// and no SQL live here.
package handler

import (
	"bytes"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/sakif/miniblog/internal/apperror"
)

// Renderer holds the parsed page templates. Each page file is parsed
// together with layout.html once at startup; rendering executes the "layout"
// template, which the page fills via its "content" block.
type Renderer struct {
	tmpl   map[string]*template.Template
	logger *slog.Logger
}

func NewRenderer(templateDir string, logger *slog.Logger) (*Renderer, error) {
	layout := filepath.Join(templateDir, "layout.html")
	pages, err := filepath.Glob(filepath.Join(templateDir, "*.html"))
	if err != nil {
		return nil, err
	}

	tmpl := make(map[string]*template.Template)
	for _, page := range pages {
		if filepath.Base(page) == "layout.html" {
			continue
		}
		t, err := template.ParseFiles(layout, page)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(filepath.Base(page), ".html")
		tmpl[name] = t
	}

	return &Renderer{tmpl: tmpl, logger: logger}, nil
}

// Render executes the named page into a buffer first, so a template failure
// becomes a clean error page instead of a half-written response.
//
// html/template escapes every interpolated value, which is the output-side
// injection boundary: user-supplied titles, content, and usernames are
// stored verbatim and neutralized only here.
func (rd *Renderer) Render(w http.ResponseWriter, status int, name string, data any) {
	t, ok := rd.tmpl[name]
	if !ok {
		rd.logger.Error("unknown template", slog.String("name", name))
		rd.writeErrorPage(w)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		rd.logger.Error("template execution failed",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		rd.writeErrorPage(w)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// RenderFailure shows the generic error page for an unrecoverable error.
// The underlying detail goes to the log only; never into the response.
func (rd *Renderer) RenderFailure(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	msg := err.Error()
	if errors.As(err, &appErr) && appErr.Err != nil {
		msg = appErr.Err.Error()
	}
	rd.logger.Error("request failed", slog.String("error", msg))
	rd.writeErrorPage(w)
}

func (rd *Renderer) writeErrorPage(w http.ResponseWriter) {
	t, ok := rd.tmpl["error"]
	if !ok {
		http.Error(w, "Something went wrong.", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", nil); err != nil {
		http.Error(w, "Something went wrong.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	buf.WriteTo(w)
}

package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alchemorsel/recipebox/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/recipebox/internal/ports/inbound"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:embed templates
var templatesFS embed.FS

const flashCookie = "recipebox_flash"

// Flash levels
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Flash is a one-shot message shown on the next rendered page
type Flash struct {
	Level   string
	Message string
}

// PageData is handed to every page template
type PageData struct {
	Title     string
	User      *middleware.Principal
	CSRFToken string
	CSRFField string
	Flash     *Flash
	Errors    map[string]string
	Data      interface{}
}

// Renderer executes the embedded page templates. Every page is parsed on
// top of its own copy of the layout so pages can each define "content".
type Renderer struct {
	pages  map[string]*template.Template
	logger *zap.Logger
}

// NewRenderer parses the layout and every page template
func NewRenderer(logger *zap.Logger) (*Renderer, error) {
	layout, err := template.New("").Funcs(funcMap()).ParseFS(templatesFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	pages := make(map[string]*template.Template)
	err = fs.WalkDir(templatesFS, "templates/pages", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		name := strings.TrimSuffix(strings.TrimPrefix(path, "templates/pages/"), ".html")
		page, err := layout.Clone()
		if err != nil {
			return fmt.Errorf("failed to clone layout for %s: %w", name, err)
		}
		if _, err := page.ParseFS(templatesFS, path); err != nil {
			return fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages[name] = page
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk templates: %w", err)
	}

	return &Renderer{pages: pages, logger: logger.Named("renderer")}, nil
}

// Has reports whether a page template exists
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// Render writes the named page. The page is rendered into a buffer first so
// a template failure never leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data PageData) {
	page, ok := r.pages[name]
	if !ok {
		r.logger.Error("Unknown template", zap.String("template", name))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if data.CSRFField == "" {
		data.CSRFField = middleware.CSRFField
	}

	var buf bytes.Buffer
	if err := page.ExecuteTemplate(&buf, "layout", data); err != nil {
		r.logger.Error("Failed to execute template", zap.String("template", name), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Debug("Failed to write response", zap.Error(err))
	}
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"isoDate": func(t time.Time) string {
			return t.Format("2006-01-02")
		},
		"weekday": func(t time.Time) string {
			return t.Format("Monday")
		},
		"lines": func(s string) []string {
			var out []string
			for _, line := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
				if line = strings.TrimSpace(line); line != "" {
					out = append(out, line)
				}
			}
			return out
		},
		"truncate": func(s string, n int) string {
			if len([]rune(s)) <= n {
				return s
			}
			return string([]rune(s)[:n]) + "..."
		},
		"hasID": func(ids []uuid.UUID, id uuid.UUID) bool {
			for _, candidate := range ids {
				if candidate == id {
					return true
				}
			}
			return false
		},
		"sameID": func(a, b uuid.UUID) bool {
			return a == b
		},
		"slot": func(page PageData, plan *inbound.MealPlanDTO, date, mealType string) mealSlot {
			return mealSlot{Page: page, Plan: plan, Date: date, MealType: mealType}
		},
	}
}

// mealSlot is one cell of the weekly meal plan
type mealSlot struct {
	Page     PageData
	Plan     *inbound.MealPlanDTO
	Date     string
	MealType string
}

func setFlash(w http.ResponseWriter, level, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(level + "|" + message),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash reads the pending flash message and clears it
func popFlash(w http.ResponseWriter, r *http.Request) *Flash {
	cookie, err := r.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return nil
	}
	level, message, ok := strings.Cut(raw, "|")
	if !ok || message == "" {
		return nil
	}
	return &Flash{Level: level, Message: message}
}

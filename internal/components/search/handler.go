package search

import (
	"errors"
	"html/template"
	"net/http"
	"path/filepath"

	"github.com/rs/zerolog/hlog"

	"github.com/Shadpls/Eat-Already/internal/components/session"
	"github.com/Shadpls/Eat-Already/internal/shared/config"
	"github.com/Shadpls/Eat-Already/internal/shared/middleware"
	"github.com/Shadpls/Eat-Already/internal/shared/validation"
)

type (
	Handler struct {
		service     servicer
		validator   *Validator
		store       session.Store
		templateDir string
	}

	// searchData feeds the search form template; Location and Category
	// survive a failed submit.
	searchData struct {
		Error      string
		Errors     []*validation.FieldError
		Location   string
		Category   string
		Categories []string
	}

	resultsData struct {
		Result *session.Result
	}
)

func NewHandler(service servicer, validator *Validator, store session.Store, cfg *config.Config) *Handler {
	return &Handler{
		service:     service,
		validator:   validator,
		store:       store,
		templateDir: cfg.TemplateDir,
	}
}

// SearchPage renders the search form.
func (h *Handler) SearchPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "search.html", searchData{Categories: Categories})
}

// Search validates the location, picks a restaurant, stores it on the
// session, and redirects to the results page.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := hlog.FromRequest(r)

	if err := r.ParseForm(); err != nil {
		logger.Warn().Err(err).Msg("Failed to parse search form")
		h.render(w, r, "search.html", searchData{Error: "Invalid form data", Categories: Categories})
		return
	}

	form := SearchForm{
		Location: r.FormValue("location"),
		Category: r.FormValue("category"),
	}
	data := searchData{
		Location:   form.Location,
		Category:   form.Category,
		Categories: Categories,
	}

	if fieldErrors := validation.ValidateStruct(form); fieldErrors != nil {
		data.Errors = fieldErrors
		h.render(w, r, "search.html", data)
		return
	}

	if !h.validator.IsValid(ctx, form.Location) {
		logger.Debug().Str("location", form.Location).Msg("Location did not validate")
		data.Error = "We couldn't find that location. Try a city name or a ZIP code."
		h.render(w, r, "search.html", data)
		return
	}

	result, err := h.service.Pick(ctx, form.Location, form.Category)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoResults):
			data.Error = "No restaurants found there. Try a different location or category."
		case errors.Is(err, ErrUpstream):
			logger.Error().Err(err).Msg("Restaurant search failed upstream")
			data.Error = "Search is unavailable right now. Please try again."
		default:
			logger.Error().Err(err).Msg("Restaurant search failed")
			data.Error = "Something went wrong. Please try again."
		}
		h.render(w, r, "search.html", data)
		return
	}

	sess := middleware.SessionFrom(ctx)
	sess.LastResult = result
	if err := h.store.Set(ctx, sess); err != nil {
		logger.Error().Err(err).Msg("Failed to store search result on session")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	logger.Debug().Str("restaurant", result.Name).Msg("Restaurant picked")
	http.Redirect(w, r, "/results", http.StatusSeeOther)
}

// ResultsPage renders the last stored result, or empty fields when the user
// navigated here without a prior search.
func (h *Handler) ResultsPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFrom(r.Context())
	h.renderResults(w, r, resultsData{Result: sess.LastResult})
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data searchData) {
	logger := hlog.FromRequest(r)

	tmpl, err := template.ParseFiles(filepath.Join(h.templateDir, name))
	if err != nil {
		logger.Error().Err(err).Str("template", name).Msg("Failed to parse template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		logger.Error().Err(err).Str("template", name).Msg("Failed to execute template")
	}
}

func (h *Handler) renderResults(w http.ResponseWriter, r *http.Request, data resultsData) {
	logger := hlog.FromRequest(r)

	tmpl, err := template.ParseFiles(filepath.Join(h.templateDir, "results.html"))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to parse results template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		logger.Error().Err(err).Msg("Failed to execute results template")
	}
}

package account

import (
	"errors"
	"html/template"
	"net/http"
	"path/filepath"

	"github.com/rs/zerolog/hlog"

	"github.com/Shadpls/Eat-Already/internal/components/session"
	"github.com/Shadpls/Eat-Already/internal/shared/config"
	"github.com/Shadpls/Eat-Already/internal/shared/cookie"
	"github.com/Shadpls/Eat-Already/internal/shared/middleware"
	"github.com/Shadpls/Eat-Already/internal/shared/validation"
)

type (
	Handler struct {
		service     Service
		store       session.Store
		secret      []byte
		templateDir string
	}

	// formData feeds the login and signup templates; Username survives a
	// failed submit so the field is not discarded.
	formData struct {
		Error    string
		Errors   []*validation.FieldError
		Username string
	}
)

func NewHandler(service Service, store session.Store, cfg *config.Config) *Handler {
	return &Handler{
		service:     service,
		store:       store,
		secret:      cfg.SecretKey(),
		templateDir: cfg.TemplateDir,
	}
}

// LoginPage renders the login form.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login.html", formData{})
}

// Login validates credentials and starts a session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := hlog.FromRequest(r)

	if err := r.ParseForm(); err != nil {
		logger.Warn().Err(err).Msg("Failed to parse login form")
		h.render(w, r, "login.html", formData{Error: "Invalid form data"})
		return
	}

	form := CredentialsForm{
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
	}
	if fieldErrors := validation.ValidateStruct(form); fieldErrors != nil {
		h.render(w, r, "login.html", formData{Errors: fieldErrors, Username: form.Username})
		return
	}

	user, err := h.service.Authenticate(ctx, form.Username, form.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			logger.Warn().Str("username", form.Username).Msg("Login failed: invalid credentials")
			h.render(w, r, "login.html", formData{Error: "Invalid username or password", Username: form.Username})
			return
		}
		logger.Error().Err(err).Msg("Login failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	sess := session.New(user.ID, user.Username)
	if err := h.store.Create(ctx, sess); err != nil {
		logger.Error().Err(err).Msg("Login failed: could not create session")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := cookie.Set(w, sess.ID, h.secret); err != nil {
		logger.Error().Err(err).Msg("Login failed: could not set cookie")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	logger.Debug().Str("username", user.Username).Int64("user_id", user.ID).Msg("Login successful")
	http.Redirect(w, r, "/search", http.StatusSeeOther)
}

// SignupPage renders the registration form.
func (h *Handler) SignupPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "signup.html", formData{})
}

// Signup registers a new user and redirects to the login page.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := hlog.FromRequest(r)

	if err := r.ParseForm(); err != nil {
		logger.Warn().Err(err).Msg("Failed to parse signup form")
		h.render(w, r, "signup.html", formData{Error: "Invalid form data"})
		return
	}

	form := CredentialsForm{
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
	}
	if fieldErrors := validation.ValidateStruct(form); fieldErrors != nil {
		h.render(w, r, "signup.html", formData{Errors: fieldErrors, Username: form.Username})
		return
	}

	if _, err := h.service.Register(ctx, form.Username, form.Password); err != nil {
		if errors.Is(err, ErrDuplicateUsername) {
			h.render(w, r, "signup.html", formData{Error: "This username is taken. Try again", Username: form.Username})
			return
		}
		logger.Error().Err(err).Msg("Signup failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	logger.Debug().Str("username", form.Username).Msg("Signup successful")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Logout clears the session and expires the cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := hlog.FromRequest(r)

	if sess := middleware.SessionFrom(ctx); sess != nil {
		if err := h.store.Clear(ctx, sess.ID); err != nil {
			logger.Error().Err(err).Msg("Failed to clear session")
		}
	}

	cookie.Delete(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data formData) {
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

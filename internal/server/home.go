package server

import (
	"html/template"
	"net/http"
	"path/filepath"

	"github.com/rs/zerolog/hlog"

	"github.com/Shadpls/Eat-Already/internal/shared/cookie"
)

type homeData struct {
	Username string
}

// home renders the landing page. A resolvable session cookie personalizes
// it; anonymous visitors get the plain page with login/signup links.
func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	logger := hlog.FromRequest(r)

	data := homeData{}
	if id, err := cookie.Get(r, s.config.SecretKey()); err == nil {
		if sess, err := s.store.Get(r.Context(), id); err == nil {
			data.Username = sess.Username
		}
	}

	tmpl, err := template.ParseFiles(filepath.Join(s.config.TemplateDir, "index.html"))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to parse index template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		logger.Error().Err(err).Msg("Failed to execute index template")
	}
}

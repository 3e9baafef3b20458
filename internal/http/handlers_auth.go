package http

import (
	"net/http"

	"obras/internal/auth"
	applog "obras/internal/log"
)

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.sessions.FromRequest(r); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.rememberLang(w, r)
	s.renderEntry(w, r, http.StatusOK, "login", "document", loginPage{page: s.pageData(r, "")})
}

// handleLogin checks the static credentials and opens a session whose
// workspace starts from the demo data.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		BadRequestError(t(s.lang(r), "error.validation")).Write(w)
		return
	}
	username := p.Get("username")

	if !s.credentials.Check(username, p.Get("password")) {
		s.logger.WarnContext(r.Context(), "Login rejected",
			applog.FieldOperation, applog.OpLogin,
			applog.FieldClientIP, s.detector.ExtractClientIP(r))
		entry := "document"
		if isHTMX(r) {
			entry = "login_form"
		}
		s.renderEntry(w, r, http.StatusUnauthorized, "login", entry,
			loginPage{page: s.pageData(r, ""), Username: username, Failed: true})
		return
	}

	sess, err := s.sessions.Create(username)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.provider.Open(r.Context(), sess.ID); err != nil {
		s.sessions.Delete(sess.ID)
		s.fail(w, r, err)
		return
	}
	auth.SetCookie(w, sess.ID, s.secureCookies)
	s.logger.InfoContext(r.Context(), "Login accepted", applog.FieldOperation, applog.OpLogin, applog.FieldUser, username)

	if isHTMX(r) {
		NewHTMXResponse().Redirect("/").Write(w)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleLogout ends the session, which discards its memory workspace.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := s.sessions.FromRequest(r); ok {
		s.sessions.Delete(sess.ID)
		s.logger.InfoContext(r.Context(), "Logout", applog.FieldOperation, applog.OpLogout, applog.FieldUser, sess.Username)
	}
	auth.ClearCookie(w)
	if isHTMX(r) {
		NewHTMXResponse().Redirect("/login").Write(w)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"obras/internal/auth"
	"obras/internal/backend"
	"obras/internal/core"
	"obras/internal/i18n"
	applog "obras/internal/log"
	"obras/internal/services"
)

const langCookie = "obras_lang"

var t = i18n.T

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// lang resolves the UI language: ?lang, then the language cookie, then
// Accept-Language, then the configured default.
func (s *Server) lang(r *http.Request) string {
	if q := r.URL.Query().Get("lang"); q == i18n.PT || q == i18n.EN {
		return q
	}
	if c, err := r.Cookie(langCookie); err == nil && (c.Value == i18n.PT || c.Value == i18n.EN) {
		return c.Value
	}
	if h := r.Header.Get("Accept-Language"); h != "" {
		return i18n.DetectLanguage(h)
	}
	return i18n.Normalize(s.defaultLang)
}

// rememberLang persists an explicit ?lang choice for the browser session.
func (s *Server) rememberLang(w http.ResponseWriter, r *http.Request) {
	if q := r.URL.Query().Get("lang"); q == i18n.PT || q == i18n.EN {
		http.SetCookie(w, &http.Cookie{
			Name:     langCookie,
			Value:    q,
			Path:     "/",
			HttpOnly: true,
			Secure:   s.secureCookies,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.sessions.FromRequest(r)
		if !ok {
			toLogin(w, r)
			return
		}
		s.rememberLang(w, r)
		next(w, r.WithContext(auth.WithSession(r.Context(), sess)))
	}
}

func toLogin(w http.ResponseWriter, r *http.Request) {
	if isHTMX(r) {
		NewHTMXResponse().Redirect("/login").Status(http.StatusUnauthorized).Write(w)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) pageData(r *http.Request, nav string) page {
	p := page{Lang: s.lang(r), Nav: nav}
	if sess, ok := auth.FromContext(r.Context()); ok {
		p.User = sess.Username
	}
	return p
}

// service builds the project service around the caller's workspace.
func (s *Server) service(r *http.Request) (*services.ProjectService, error) {
	sess, _ := auth.FromContext(r.Context())
	ws, err := s.provider.Workspace(r.Context(), sess.ID)
	if err != nil {
		return nil, err
	}
	return services.NewProjectService(ws, s.publisher), nil
}

// render writes a full page inside the app layout.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	s.renderEntry(w, r, status, name, "layout", data)
}

func (s *Server) renderEntry(w http.ResponseWriter, r *http.Request, status int, name, entry string, data any) {
	body, err := s.templates.page(name, entry, data)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Template execution failed",
			applog.FieldOperation, applog.OpRender, "template", name, applog.FieldError, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	NewHTMXResponse().Status(status).BodyHTML(body).Write(w)
}

// partial renders a fragment into b and writes it.
func (s *Server) partial(w http.ResponseWriter, r *http.Request, b *HTMXResponseBuilder, name string, data any) {
	body, err := s.templates.partial(name, data)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Template execution failed",
			applog.FieldOperation, applog.OpRender, "template", name, applog.FieldError, err)
		InternalServerError(t(s.lang(r), "error.internal")).Write(w)
		return
	}
	b.BodyHTML(body).Write(w)
}

// fail maps an error to 404 or 500, as a fragment for htmx and as a page
// otherwise.
// A session whose workspace is gone ended mid-request and is sent to login.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	lang := s.lang(r)
	if errors.Is(err, backend.ErrNoWorkspace) {
		if sess, ok := auth.FromContext(r.Context()); ok {
			s.sessions.Delete(sess.ID)
		}
		s.logger.WarnContext(r.Context(), "Session ended during request", applog.FieldPath, r.URL.Path)
		auth.ClearCookie(w)
		toLogin(w, r)
		return
	}

	status, key := http.StatusInternalServerError, "error.internal"
	if isNotFound(err) {
		status, key = http.StatusNotFound, "error.not_found"
		s.logger.WarnContext(r.Context(), "Resource not found", applog.FieldPath, r.URL.Path, applog.FieldError, err)
	} else {
		op := applog.OpUpdate
		if r.Method == http.MethodGet {
			op = applog.OpRead
		}
		applog.NewStructuredLogger(s.logger).LogError(r.Context(), "Request failed", err,
			applog.ComponentHTTP, op, applog.NewFields().WithHTTPRequest(r.Method, r.URL.Path, "", "", ""))
	}

	if isHTMX(r) {
		if status == http.StatusNotFound {
			NotFoundError(t(lang, key)).Write(w)
			return
		}
		InternalServerError(t(lang, key)).Write(w)
		return
	}
	s.render(w, r, status, "error", errorPage{page: s.pageData(r, ""), Status: status, Message: t(lang, key)})
}

// validation extracts field violations from err.
func validation(err error) (core.Violations, bool) {
	var ve *core.ValidationError
	if errors.As(err, &ve) {
		return ve.Fields, true
	}
	return nil, false
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).String(),
	})
}

// handleReady checks templates and the backend.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, httpStatus := "ready", http.StatusOK
	checks := map[string]string{"templates": "ok", "backend": "ok"}
	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status, httpStatus = "not_ready", http.StatusServiceUnavailable
	}
	if err := s.provider.Ready(ctx); err != nil {
		checks["backend"] = "failed: " + err.Error()
		status, httpStatus = "not_ready", http.StatusServiceUnavailable
	}
	checks["sessions"] = strconv.Itoa(s.sessions.Len())
	checks["rate_limited_clients"] = strconv.Itoa(s.limiter.ActiveClients())

	writeJSON(w, httpStatus, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func isNotFound(err error) bool {
	return errors.Is(err, core.ErrNotFound)
}

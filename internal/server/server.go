package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"lecturehub/internal/app"
	"lecturehub/internal/ratelimit"
	"lecturehub/internal/util"
)

// Config wires required dependencies for the HTTP server.
type Config struct {
	App *app.App

	// AuthLimiter throttles register and login. Nil disables throttling.
	AuthLimiter *ratelimit.FixedWindowLimiter

	// TrustedProxies decides whether forwarded headers are believed when
	// resolving the rate limit key.
	TrustedProxies *util.TrustedProxies
}

// Server exposes the HTTP endpoints.
type Server struct {
	app         *app.App
	authLimiter *ratelimit.FixedWindowLimiter
	proxies     *util.TrustedProxies
	mux         *http.ServeMux
}

// New constructs the server with routes configured.
func New(cfg Config) *Server {
	s := &Server{
		app:         cfg.App,
		authLimiter: cfg.AuthLimiter,
		proxies:     cfg.TrustedProxies,
		mux:         http.NewServeMux(),
	}
	s.routes()
	return s
}

// Router returns the configured handler with the middleware chain applied.
func (s *Server) Router() http.Handler {
	return util.WithRequestID(util.WithRequestLog(util.WithSecurityHeaders(util.WithCORS(s.mux))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	// users
	s.mux.HandleFunc("/user/register", s.handleRegister)
	s.mux.HandleFunc("/user/login", s.handleLogin)
	s.mux.HandleFunc("/user/logout", s.handleLogout)
	s.mux.Handle("/user/me", s.authenticated(s.handleMe))
	s.mux.HandleFunc("/user/update/", s.handleUserUpdate)
	s.mux.HandleFunc("/user/", s.handleUsers)

	// lectures
	s.mux.HandleFunc("/lecture/create", s.handleLectureCreate)
	s.mux.HandleFunc("/lecture/by_code/", s.handleLectureByCode)
	s.mux.HandleFunc("/lecture/by_organizer/", s.handleLecturesByOrganizer)
	s.mux.HandleFunc("/lecture/by_speaker/", s.handleLecturesBySpeaker)
	s.mux.HandleFunc("/lecture/", s.handleLectures)

	// invitations
	s.mux.HandleFunc("/invitation/create", s.handleInvitationCreate)
	s.mux.HandleFunc("/invitation/accept/", s.handleInvitationAccept)
	s.mux.HandleFunc("/invitation/byspeaker/", s.handleInvitationsBySpeaker)
	s.mux.HandleFunc("/invitation/lid/", s.handleInvitationsByLecture)
	s.mux.HandleFunc("/invitation/", s.handleInvitations)

	// attendance
	s.mux.HandleFunc("/attendance/add", s.handleAttendanceAdd)
	s.mux.HandleFunc("/attendance/create", s.handleAttendanceAdd)
	s.mux.HandleFunc("/attendance/update_is_present", s.handleUpdateIsPresent)
	s.mux.HandleFunc("/attendance/by-lecture", s.handleAttendanceByLecture)
	s.mux.HandleFunc("/attendance/by-audience", s.handleAttendanceByAudience)
	s.mux.HandleFunc("/attendance/present", s.handlePresentUsers)
	s.mux.HandleFunc("/attendance/lectures_by_user/", s.handleLecturesByUser)
	s.mux.HandleFunc("/attendance/delete", s.handleAttendanceDelete)
	s.mux.HandleFunc("/attendance/bylecture/", s.handleAttendanceByLectureDelete)

	// feedback
	s.mux.HandleFunc("/feedback/submit", s.handleFeedbackSubmit)
	s.mux.HandleFunc("/feedback/lecture/", s.handleFeedbackByLecture)

	// discussions
	s.mux.HandleFunc("/discussion/add", s.handleDiscussionAdd)
	s.mux.HandleFunc("/discussion/lecture/", s.handleDiscussionByLecture)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// pathTail returns the path segment after prefix, rejecting empty or
// nested remainders.
func pathTail(r *http.Request, prefix string) (string, bool) {
	tail := strings.TrimPrefix(r.URL.Path, prefix)
	if tail == "" || strings.Contains(tail, "/") {
		return "", false
	}
	return tail, true
}

func (s *Server) authenticated(next func(http.ResponseWriter, *http.Request)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.authorize(r); !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	})
}

func (s *Server) authorize(r *http.Request) (string, bool) {
	token, ok := bearerToken(r)
	if !ok {
		return "", false
	}
	user, ok := s.app.UserFromToken(token)
	if !ok {
		return "", false
	}
	return user.ID, true
}

// allowAuthRate throttles credential endpoints per client IP. A nil
// limiter allows everything.
func (s *Server) allowAuthRate(w http.ResponseWriter, r *http.Request) bool {
	key := r.URL.Path + "|" + util.ClientIP(r, s.proxies)
	if s.authLimiter.Allow(key) {
		return true
	}
	w.Header().Set("Retry-After", "60")
	writeError(w, http.StatusTooManyRequests, "too many attempts, slow down")
	return false
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		slog.Warn("missing bearer prefix", "path", r.URL.Path)
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		slog.Warn("empty bearer token", "path", r.URL.Path)
		return "", false
	}
	return token, true
}

func decodeBody(r *http.Request, dst any) error {
	return json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(dst)
}

func httpStatus(err error) int {
	switch {
	case errors.Is(err, app.ErrInvalidID),
		errors.Is(err, app.ErrInvalidEmail),
		errors.Is(err, app.ErrInvalidStartTime),
		errors.Is(err, app.ErrEmptyUpdate):
		return http.StatusBadRequest
	case errors.Is(err, app.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, app.ErrUserNotFound),
		errors.Is(err, app.ErrLectureNotFound),
		errors.Is(err, app.ErrInvitationNotFound),
		errors.Is(err, app.ErrAttendanceNotFound),
		errors.Is(err, app.ErrFeedbackNotFound):
		return http.StatusNotFound
	case errors.Is(err, app.ErrUsernameTaken),
		errors.Is(err, app.ErrEmailTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeAppError maps an application error onto an HTTP status. Internal
// details never reach the response body.
func writeAppError(w http.ResponseWriter, err error) {
	status := httpStatus(err)
	if status == http.StatusInternalServerError {
		slog.Error("internal error", "err", err)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

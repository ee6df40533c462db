// Package server exposes the analysis engine over HTTP. Clients open a
// session, register their API keys against it, and run analyses; keys never
// appear in URLs or server logs.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"nichescope"
	"nichescope/analysis"
	"nichescope/session"
)

// TokenHeader carries the session token on every authenticated request.
const TokenHeader = "X-Session-Token"

// failureMessage is the single body returned for any engine failure. The
// client cannot act on provider details, so none are exposed.
const failureMessage = "analysis failed, check credentials and retry"

// Engine is the part of the analysis engine the server needs.
type Engine interface {
	Run(ctx context.Context, query string, creds nichescope.Credentials) (*nichescope.Outcome, error)
	VideoForensics(ctx context.Context, videoURL string, creds nichescope.Credentials) (*analysis.DeepVideoReport, error)
	ChannelDrillDown(ctx context.Context, channelName string, creds nichescope.Credentials) (*analysis.DrillDown, error)
}

// Options configures the HTTP surface.
type Options struct {
	// AllowedOrigins is the CORS allow-list. Empty means same-origin only.
	AllowedOrigins []string
	// RequestsPerSecond rate-limits each client address. Zero disables.
	RequestsPerSecond float64
	// Burst is the per-client burst size.
	Burst int
}

// Server routes HTTP requests to the engine and session store.
type Server struct {
	engine   Engine
	sessions *session.Store
}

// New builds the handler stack.
func New(engine Engine, sessions *session.Store, opts Options) http.Handler {
	s := &Server{engine: engine, sessions: sessions}

	mux := chi.NewRouter()
	mux.Use(requestLogger)
	if opts.RequestsPerSecond > 0 {
		mux.Use(perClientLimit(opts.RequestsPerSecond, opts.Burst))
	}
	if len(opts.AllowedOrigins) > 0 {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", TokenHeader},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	mux.Route("/api", func(rt chi.Router) {
		rt.Post("/session", s.wrap(s.handleCreateSession))
		rt.Put("/session/keys", s.wrap(s.handleSetKeys))
		rt.Get("/session/result", s.wrap(s.handleLastResult))
		rt.Delete("/session", s.wrap(s.handleDeleteSession))
		rt.Post("/analyze", s.wrap(s.handleAnalyze))
		rt.Post("/forensics", s.wrap(s.handleForensics))
		rt.Post("/drilldown", s.wrap(s.handleDrillDown))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// statusError carries an explicit HTTP status through the error return.
type statusError struct {
	code int
	msg  string
}

func (e *statusError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &statusError{code: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}

// wrap maps handler errors onto wire responses.
func (s *Server) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		var se *statusError
		switch {
		case errors.As(err, &se):
			writeError(w, se.code, se.msg)
		case errors.Is(err, session.ErrNotFound):
			writeError(w, http.StatusUnauthorized, "unknown or expired session")
		case errors.Is(err, nichescope.ErrAnalysisFailed):
			writeError(w, http.StatusBadGateway, failureMessage)
		default:
			writeError(w, http.StatusInternalServerError, "internal error")
		}
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// session resolves the request's session from the token header.
func (s *Server) session(req *http.Request) (session.Session, error) {
	token := req.Header.Get(TokenHeader)
	if token == "" {
		return session.Session{}, &statusError{code: http.StatusUnauthorized, msg: "missing session token"}
	}
	return s.sessions.Get(token)
}

// POST /api/session
func (s *Server) handleCreateSession(w http.ResponseWriter, req *http.Request) error {
	token := s.sessions.Create()
	return writeJSON(w, http.StatusCreated, map[string]string{"token": token})
}

// DELETE /api/session
func (s *Server) handleDeleteSession(w http.ResponseWriter, req *http.Request) error {
	sess, err := s.session(req)
	if err != nil {
		return err
	}
	s.sessions.Delete(sess.Token)
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// PUT /api/session/keys
func (s *Server) handleSetKeys(w http.ResponseWriter, req *http.Request) error {
	sess, err := s.session(req)
	if err != nil {
		return err
	}

	var creds nichescope.Credentials
	if err := json.NewDecoder(req.Body).Decode(&creds); err != nil {
		return badRequest("invalid body: %v", err)
	}
	if creds.ModelKey == "" {
		return badRequest("modelKey is required")
	}

	if err := s.sessions.SetCredentials(sess.Token, creds); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// GET /api/session/result
func (s *Server) handleLastResult(w http.ResponseWriter, req *http.Request) error {
	sess, err := s.session(req)
	if err != nil {
		return err
	}
	if sess.LastResult == nil {
		return &statusError{code: http.StatusNotFound, msg: "no result yet"}
	}
	return writeJSON(w, http.StatusOK, sess.LastResult)
}

// POST /api/analyze
func (s *Server) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	sess, err := s.session(req)
	if err != nil {
		return err
	}
	creds, err := requireModelKey(sess)
	if err != nil {
		return err
	}

	var body struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("invalid body: %v", err)
	}
	if body.Query == "" {
		return badRequest("query is required")
	}

	out, err := s.engine.Run(req.Context(), body.Query, creds)
	if err != nil {
		return err
	}

	// Best effort: a session evicted mid-run should not fail the response.
	s.sessions.SetResult(sess.Token, out)
	return writeJSON(w, http.StatusOK, out)
}

// POST /api/forensics
func (s *Server) handleForensics(w http.ResponseWriter, req *http.Request) error {
	sess, err := s.session(req)
	if err != nil {
		return err
	}
	creds, err := requireModelKey(sess)
	if err != nil {
		return err
	}

	var body struct {
		VideoURL string `json:"videoUrl"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("invalid body: %v", err)
	}
	if !analysis.IsVideoQuery(body.VideoURL) {
		return badRequest("videoUrl must be a video link")
	}

	report, err := s.engine.VideoForensics(req.Context(), body.VideoURL, creds)
	if err != nil {
		return err
	}

	s.sessions.SetResult(sess.Token, &nichescope.Outcome{Kind: nichescope.KindForensics, Forensics: report})
	return writeJSON(w, http.StatusOK, report)
}

// POST /api/drilldown
func (s *Server) handleDrillDown(w http.ResponseWriter, req *http.Request) error {
	sess, err := s.session(req)
	if err != nil {
		return err
	}
	creds, err := requireModelKey(sess)
	if err != nil {
		return err
	}

	var body struct {
		ChannelName string `json:"channelName"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("invalid body: %v", err)
	}
	if body.ChannelName == "" {
		return badRequest("channelName is required")
	}

	dd, err := s.engine.ChannelDrillDown(req.Context(), body.ChannelName, creds)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, dd)
}

func requireModelKey(sess session.Session) (nichescope.Credentials, error) {
	if sess.Credentials.ModelKey == "" {
		return nichescope.Credentials{}, &statusError{
			code: http.StatusPreconditionFailed,
			msg:  "no model key registered for this session",
		}
	}
	return sess.Credentials, nil
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package api exposes the editor backend over HTTP: project and script
// reads, document sync, timeline clip editing and the trace log. It also
// ships the matching client used by the CLI.
package api

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/superficialadam/bl-agentic-rewrite/internal/log"
	"github.com/superficialadam/bl-agentic-rewrite/internal/reconcile"
	"github.com/superficialadam/bl-agentic-rewrite/internal/storage"
	"github.com/superficialadam/bl-agentic-rewrite/internal/trace"
	"github.com/superficialadam/bl-agentic-rewrite/internal/version"
)

// Server is the HTTP API server.
type Server struct {
	store    *storage.Store
	engine   *reconcile.Engine
	recorder *trace.Recorder
	secret   string
	logger   *slog.Logger
	mux      *http.ServeMux
}

// NewServer wires the API around a store. secret enables bearer-token auth
// on the /api tree; an empty secret leaves the API open (local use).
func NewServer(store *storage.Store, secret string) *Server {
	s := &Server{
		store:    store,
		engine:   reconcile.New(store),
		recorder: trace.NewRecorder(store),
		secret:   secret,
		logger:   log.WithComponent("api"),
		mux:      http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
	s.mux.HandleFunc("GET /readyz", s.handleReadyz)
	s.mux.HandleFunc("GET /version", s.handleVersion)
	s.mux.HandleFunc("POST /api/auth/token", s.handleIssueToken)

	api := func(h http.HandlerFunc) http.HandlerFunc { return s.withAuth(h) }
	s.mux.HandleFunc("GET /api/projects", api(s.handleListProjects))
	s.mux.HandleFunc("POST /api/projects", api(s.handleCreateProject))
	s.mux.HandleFunc("GET /api/projects/{slug}", api(s.handleGetProject))
	s.mux.HandleFunc("DELETE /api/projects/{slug}", api(s.handleDeleteProject))
	s.mux.HandleFunc("GET /api/projects/{slug}/characters", api(s.handleProjectCharacters))
	s.mux.HandleFunc("GET /api/scripts/{id}", api(s.handleGetScript))
	s.mux.HandleFunc("GET /api/scripts/{id}/document", api(s.handleGetDocument))
	s.mux.HandleFunc("POST /api/scripts/{id}/sync", api(s.handleSync))
	s.mux.HandleFunc("GET /api/timelines/{id}", api(s.handleGetTimeline))
	s.mux.HandleFunc("POST /api/timelines/{id}/clips", api(s.handleCreateClip))
	s.mux.HandleFunc("PUT /api/clips/{id}", api(s.handleUpdateClip))
	s.mux.HandleFunc("DELETE /api/clips/{id}", api(s.handleDeleteClip))
	s.mux.HandleFunc("GET /api/traces/{id}", api(s.handleGetTrace))
}

// Handler returns the server's root handler with request logging and trace
// ids applied.
func (s *Server) Handler() http.Handler {
	return s.withTrace(s.mux)
}

// ListenAndServe runs the API on addr until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.logger.Info("listening", "addr", addr)
	return srv.ListenAndServe()
}

// withTrace assigns every request a trace id, exposes it in the X-Trace-Id
// header and records a request_start event for API calls.
func (s *Server) withTrace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Trace-Id")
		if traceID == "" {
			traceID = trace.NewID()
		}
		w.Header().Set("X-Trace-Id", traceID)
		r = r.WithContext(withTraceID(r.Context(), traceID))

		if strings.HasPrefix(r.URL.Path, "/api/") {
			s.recorder.RequestStart(r.Context(), traceID, r.Method+" "+r.URL.Path, nil)
		}
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur_ms", time.Since(start).Milliseconds(), "trace_id", traceID)
	})
}

// withAuth enforces the bearer token when a secret is configured.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.secret == "" {
			next(w, r)
			return
		}
		auth := r.Header.Get("Authorization")
		tok, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || !hmac.Equal([]byte(tok), []byte(issueToken(s.secret))) {
			writeError(w, http.StatusUnauthorized, "invalid or missing token")
			return
		}
		next(w, r)
	}
}

// issueToken derives the API bearer token from the shared secret.
func issueToken(secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("rewrite-api-token"))
	return hex.EncodeToString(mac.Sum(nil))
}

type ctxKey int

const ctxTraceID ctxKey = 0

func withTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxTraceID, id)
}

func traceIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ctxTraceID).(string); ok {
		return v
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": version.Version})
}

func (s *Server) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	if s.secret == "" {
		writeError(w, http.StatusNotFound, "auth is not configured")
		return
	}
	var body struct {
		Secret string `json:"secret"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !hmac.Equal([]byte(body.Secret), []byte(s.secret)) {
		writeError(w, http.StatusUnauthorized, "invalid secret")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": issueToken(s.secret)})
}

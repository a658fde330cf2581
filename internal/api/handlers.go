/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/superficialadam/bl-agentic-rewrite/internal/domain"
	"github.com/superficialadam/bl-agentic-rewrite/internal/reconcile"
	"github.com/superficialadam/bl-agentic-rewrite/internal/screenplay"
	"github.com/superficialadam/bl-agentic-rewrite/internal/storage"
	"github.com/superficialadam/bl-agentic-rewrite/internal/trace"
)

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.store.ListProjects(r.Context())
	if err != nil {
		s.fail(w, r, "list projects", err)
		return
	}
	if projects == nil {
		projects = []domain.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Name == "" {
		writeError(w, http.StatusBadRequest, "project name is required")
		return
	}

	result, err := s.recorder.Traced(r.Context(), traceIDFrom(r.Context()), "createProject", trace.EventMutation,
		func(ctx context.Context) (any, error) {
			return s.store.CreateProject(ctx, body.Name)
		})
	if err != nil {
		s.fail(w, r, "create project", err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.ProjectBySlug(r.Context(), r.PathValue("slug"))
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		s.fail(w, r, "get project", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.ProjectBySlug(r.Context(), r.PathValue("slug"))
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		s.fail(w, r, "delete project", err)
		return
	}
	_, err = s.recorder.Traced(r.Context(), traceIDFrom(r.Context()), "deleteProject", trace.EventMutation,
		func(ctx context.Context) (any, error) {
			return nil, s.store.DeleteProject(ctx, p.ID)
		})
	if err != nil {
		s.fail(w, r, "delete project", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleProjectCharacters(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.ProjectBySlug(r.Context(), r.PathValue("slug"))
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		s.fail(w, r, "get project", err)
		return
	}
	chars, err := s.store.CharactersByProject(r.Context(), p.ID)
	if err != nil {
		s.fail(w, r, "list characters", err)
		return
	}
	if chars == nil {
		chars = []domain.Character{}
	}
	writeJSON(w, http.StatusOK, chars)
}

// scriptResponse nests a script with its ordered scenes and content.
type scriptResponse struct {
	domain.Script
	Scenes []domain.SceneWithContent `json:"scenes"`
}

func (s *Server) handleGetScript(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sc, err := s.store.ScriptByID(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "script not found")
		return
	}
	if err != nil {
		s.fail(w, r, "get script", err)
		return
	}
	scenes, err := s.store.ScriptScenes(r.Context(), id)
	if err != nil {
		s.fail(w, r, "get script scenes", err)
		return
	}
	if scenes == nil {
		scenes = []domain.SceneWithContent{}
	}
	writeJSON(w, http.StatusOK, scriptResponse{Script: sc, Scenes: scenes})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.store.ScriptByID(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "script not found")
			return
		}
		s.fail(w, r, "get script", err)
		return
	}
	scenes, err := s.store.ScriptScenes(r.Context(), id)
	if err != nil {
		s.fail(w, r, "get script scenes", err)
		return
	}
	writeJSON(w, http.StatusOK, screenplay.BuildDocument(scenes))
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.store.ScriptByID(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "script not found")
			return
		}
		s.fail(w, r, "get script", err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSyncBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable request body")
		return
	}
	if msg, ok := validateSyncRequest(body); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	var req struct {
		Document screenplay.Document `json:"document"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid document")
		return
	}

	result, err := s.recorder.Traced(r.Context(), traceIDFrom(r.Context()), "syncScript", trace.EventMutation,
		func(ctx context.Context) (any, error) {
			return s.engine.Sync(ctx, id, req.Document)
		})
	if errors.Is(err, reconcile.ErrEmptyDocument) {
		writeError(w, http.StatusBadRequest, "document is required")
		return
	}
	if err != nil {
		s.fail(w, r, "sync script", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetTimeline(w http.ResponseWriter, r *http.Request) {
	tl, err := s.store.TimelineByID(r.Context(), r.PathValue("id"))
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "timeline not found")
		return
	}
	if err != nil {
		s.fail(w, r, "get timeline", err)
		return
	}
	if tl.Tracks == nil {
		tl.Tracks = []storage.TrackWithClips{}
	}
	writeJSON(w, http.StatusOK, tl)
}

func (s *Server) handleCreateClip(w http.ResponseWriter, r *http.Request) {
	var nc storage.NewClip
	if err := json.NewDecoder(r.Body).Decode(&nc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if nc.TrackID == "" {
		writeError(w, http.StatusBadRequest, "track_id is required")
		return
	}
	result, err := s.recorder.Traced(r.Context(), traceIDFrom(r.Context()), "createClip", trace.EventMutation,
		func(ctx context.Context) (any, error) {
			return s.store.CreateClip(ctx, r.PathValue("id"), nc)
		})
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "track not found")
		return
	}
	if errors.Is(err, storage.ErrTrackNotOnTimeline) {
		writeError(w, http.StatusBadRequest, "track is not on this timeline")
		return
	}
	if err != nil {
		s.fail(w, r, "create clip", err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleUpdateClip(w http.ResponseWriter, r *http.Request) {
	var u storage.ClipUpdate
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := s.recorder.Traced(r.Context(), traceIDFrom(r.Context()), "updateClip", trace.EventMutation,
		func(ctx context.Context) (any, error) {
			return s.store.UpdateClip(ctx, r.PathValue("id"), u)
		})
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "clip not found")
		return
	}
	if errors.Is(err, storage.ErrNoUpdateFields) {
		writeError(w, http.StatusBadRequest, "no valid fields to update")
		return
	}
	if err != nil {
		s.fail(w, r, "update clip", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDeleteClip(w http.ResponseWriter, r *http.Request) {
	_, err := s.recorder.Traced(r.Context(), traceIDFrom(r.Context()), "deleteClip", trace.EventMutation,
		func(ctx context.Context) (any, error) {
			return nil, s.store.DeleteClip(ctx, r.PathValue("id"))
		})
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "clip not found")
		return
	}
	if err != nil {
		s.fail(w, r, "delete clip", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetTrace(w http.ResponseWriter, r *http.Request) {
	events, err := s.store.TracesByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, "get trace", err)
		return
	}
	if events == nil {
		events = []domain.TraceEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

// fail logs an unexpected error and answers 500 without leaking details.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	s.logger.Error(op+" failed", "err", err, "path", r.URL.Path, "trace_id", traceIDFrom(r.Context()))
	writeError(w, http.StatusInternalServerError, "internal error")
}

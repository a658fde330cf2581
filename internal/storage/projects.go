/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/superficialadam/bl-agentic-rewrite/internal/domain"
)

var slugRE = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases a project name and collapses every non-alphanumeric
// run to a single hyphen.
func Slugify(name string) string {
	s := slugRE.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

// CreateProject creates a project with its default scaffold: an "Untitled
// Script", a "Main Timeline" with one video and one audio track, and the
// project's current pointers linked to both. The slug is the slugified name
// plus a base36 timestamp suffix to keep it unique.
func (s *Store) CreateProject(ctx context.Context, name string) (domain.Project, error) {
	var p domain.Project
	name = strings.TrimSpace(name)
	if name == "" {
		return p, errors.New("storage: project name is required")
	}

	ts := now()
	slug := Slugify(name) + "-" + strconv.FormatInt(time.Now().UnixMilli(), 36)
	projectID := uuid.NewString()
	scriptID := uuid.NewString()
	timelineID := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return p, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	steps := []struct {
		query string
		args  []any
	}{
		{
			`INSERT INTO projects (id, name, slug, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			[]any{projectID, name, slug, ts, ts},
		},
		{
			`INSERT INTO scripts (id, project_id, title, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			[]any{scriptID, projectID, "Untitled Script", ts, ts},
		},
		{
			`INSERT INTO timelines (id, project_id, name) VALUES (?, ?, ?)`,
			[]any{timelineID, projectID, "Main Timeline"},
		},
		{
			`INSERT INTO tracks (id, timeline_id, name, type, order_index) VALUES (?, ?, ?, ?, ?)`,
			[]any{uuid.NewString(), timelineID, "V1", "video", 0},
		},
		{
			`INSERT INTO tracks (id, timeline_id, name, type, order_index) VALUES (?, ?, ?, ?, ?)`,
			[]any{uuid.NewString(), timelineID, "A1", "audio", 1},
		},
		{
			`UPDATE projects SET current_script_id = ?, current_timeline_id = ?, updated_at = ? WHERE id = ?`,
			[]any{scriptID, timelineID, ts, projectID},
		},
	}
	for _, st := range steps {
		if _, err := tx.ExecContext(ctx, s.rebind(st.query), st.args...); err != nil {
			return p, fmt.Errorf("create project: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return p, fmt.Errorf("commit: %w", err)
	}

	return domain.Project{
		ID:                projectID,
		Name:              name,
		Slug:              slug,
		CurrentScriptID:   &scriptID,
		CurrentTimelineID: &timelineID,
		CreatedAt:         ts,
		UpdatedAt:         ts,
	}, nil
}

const projectColumns = `id, name, slug, current_script_id, current_timeline_id, created_at, updated_at`

func scanProject(row interface{ Scan(...any) error }) (domain.Project, error) {
	var p domain.Project
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.CurrentScriptID, &p.CurrentTimelineID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// ListProjects returns all projects, newest first.
func (s *Store) ListProjects(ctx context.Context) ([]domain.Project, error) {
	rows, err := s.query(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY updated_at DESC, slug`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var out []domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ProjectBySlug loads one project by its slug.
func (s *Store) ProjectBySlug(ctx context.Context, slug string) (domain.Project, error) {
	p, err := scanProject(s.queryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE slug = ?`, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	if err != nil {
		return p, fmt.Errorf("project by slug: %w", err)
	}
	return p, nil
}

// ProjectByID loads one project by id.
func (s *Store) ProjectByID(ctx context.Context, id string) (domain.Project, error) {
	p, err := scanProject(s.queryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	if err != nil {
		return p, fmt.Errorf("project by id: %w", err)
	}
	return p, nil
}

// DeleteProject removes a project; scripts, scenes, timelines and the rest
// of its subtree cascade.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	res, err := s.exec(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CharactersByProject lists a project's characters in name order.
func (s *Store) CharactersByProject(ctx context.Context, projectID string) ([]domain.Character, error) {
	rows, err := s.query(ctx, `SELECT id, project_id, name FROM characters WHERE project_id = ? ORDER BY name`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	defer rows.Close()

	var out []domain.Character
	for rows.Next() {
		var c domain.Character
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan character: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

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

	"github.com/google/uuid"

	"github.com/superficialadam/bl-agentic-rewrite/internal/domain"
	"github.com/superficialadam/bl-agentic-rewrite/internal/reconcile"
	"github.com/superficialadam/bl-agentic-rewrite/internal/screenplay"
)

// ScriptByID loads one script by id.
func (s *Store) ScriptByID(ctx context.Context, id string) (domain.Script, error) {
	var sc domain.Script
	err := s.queryRow(ctx,
		`SELECT id, project_id, title, created_at, updated_at FROM scripts WHERE id = ?`, id).
		Scan(&sc.ID, &sc.ProjectID, &sc.Title, &sc.CreatedAt, &sc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return sc, ErrNotFound
	}
	if err != nil {
		return sc, fmt.Errorf("script by id: %w", err)
	}
	return sc, nil
}

// ScriptScenes loads a script's scenes with their content rows nested, both
// in persisted order.
func (s *Store) ScriptScenes(ctx context.Context, scriptID string) ([]domain.SceneWithContent, error) {
	rows, err := s.query(ctx,
		`SELECT id, element_id, scene_number, int_ext, location, time_of_day, order_index
		 FROM scenes WHERE script_id = ? ORDER BY order_index`, scriptID)
	if err != nil {
		return nil, fmt.Errorf("list scenes: %w", err)
	}
	defer rows.Close()

	var scenes []domain.SceneWithContent
	index := map[string]int{}
	for rows.Next() {
		var sc domain.SceneWithContent
		if err := rows.Scan(&sc.ID, &sc.ElementID, &sc.SceneNumber, &sc.IntExt, &sc.Location, &sc.TimeOfDay, &sc.OrderIndex); err != nil {
			return nil, fmt.Errorf("scan scene: %w", err)
		}
		sc.ScriptID = scriptID
		index[sc.ID] = len(scenes)
		scenes = append(scenes, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(scenes) == 0 {
		return scenes, nil
	}

	ids := make([]string, len(scenes))
	for i, sc := range scenes {
		ids[i] = sc.ID
	}
	crows, err := s.query(ctx,
		`SELECT id, scene_id, element_id, type, content, character_name, order_index, audio_asset_id, audio_status, content_hash
		 FROM scene_content WHERE scene_id IN (`+placeholders(len(ids))+`) ORDER BY scene_id, order_index`,
		anySlice(ids)...)
	if err != nil {
		return nil, fmt.Errorf("list scene content: %w", err)
	}
	defer crows.Close()

	for crows.Next() {
		var c domain.SceneContent
		if err := crows.Scan(&c.ID, &c.SceneID, &c.ElementID, &c.Type, &c.Content, &c.CharacterName, &c.OrderIndex, &c.AudioAssetID, &c.AudioStatus, &c.ContentHash); err != nil {
			return nil, fmt.Errorf("scan scene content: %w", err)
		}
		i := index[c.SceneID]
		scenes[i].Content = append(scenes[i].Content, c)
	}
	return scenes, crows.Err()
}

// UpsertScene inserts or updates a scene keyed by element id and returns
// the row id. Structured heading fields and the order index are always
// overwritten from the submission.
func (s *Store) UpsertScene(ctx context.Context, scriptID string, sc screenplay.SceneExtract) (string, error) {
	ts := now()
	var id string
	err := s.queryRow(ctx,
		`INSERT INTO scenes (id, script_id, element_id, scene_number, int_ext, location, time_of_day, order_index, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (element_id) DO UPDATE SET
			script_id = excluded.script_id,
			scene_number = excluded.scene_number,
			int_ext = excluded.int_ext,
			location = excluded.location,
			time_of_day = excluded.time_of_day,
			order_index = excluded.order_index,
			updated_at = excluded.updated_at
		 RETURNING id`,
		uuid.NewString(), scriptID, sc.ElementID, sc.SceneNumber, sc.IntExt, sc.Location, sc.TimeOfDay, sc.OrderIndex, ts, ts).
		Scan(&id)
	if err != nil {
		return "", fmt.Errorf("upsert scene: %w", err)
	}
	return id, nil
}

// UpsertContent inserts or updates a content row keyed by element id under
// the given scene. Audio columns are left alone on update so a text edit
// does not drop a generated take.
func (s *Store) UpsertContent(ctx context.Context, sceneID string, c screenplay.ContentExtract) error {
	ts := now()
	_, err := s.exec(ctx,
		`INSERT INTO scene_content (id, scene_id, element_id, type, content, character_name, order_index, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (element_id) DO UPDATE SET
			scene_id = excluded.scene_id,
			type = excluded.type,
			content = excluded.content,
			character_name = excluded.character_name,
			order_index = excluded.order_index,
			updated_at = excluded.updated_at`,
		uuid.NewString(), sceneID, c.ElementID, c.Type, c.Content, c.CharacterName, c.OrderIndex, ts, ts)
	if err != nil {
		return fmt.Errorf("upsert content: %w", err)
	}
	return nil
}

// SceneRefs lists (id, element_id) for all scenes of a script.
func (s *Store) SceneRefs(ctx context.Context, scriptID string) ([]reconcile.SceneRef, error) {
	rows, err := s.query(ctx, `SELECT id, element_id FROM scenes WHERE script_id = ?`, scriptID)
	if err != nil {
		return nil, fmt.Errorf("scene refs: %w", err)
	}
	defer rows.Close()

	var refs []reconcile.SceneRef
	for rows.Next() {
		var r reconcile.SceneRef
		if err := rows.Scan(&r.ID, &r.ElementID); err != nil {
			return nil, fmt.Errorf("scan scene ref: %w", err)
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

// ContentRefs lists (id, element_id, scene_id) for all content rows of the
// given scenes.
func (s *Store) ContentRefs(ctx context.Context, sceneIDs []string) ([]reconcile.ContentRef, error) {
	if len(sceneIDs) == 0 {
		return nil, nil
	}
	rows, err := s.query(ctx,
		`SELECT id, element_id, scene_id FROM scene_content WHERE scene_id IN (`+placeholders(len(sceneIDs))+`)`,
		anySlice(sceneIDs)...)
	if err != nil {
		return nil, fmt.Errorf("content refs: %w", err)
	}
	defer rows.Close()

	var refs []reconcile.ContentRef
	for rows.Next() {
		var r reconcile.ContentRef
		if err := rows.Scan(&r.ID, &r.ElementID, &r.SceneID); err != nil {
			return nil, fmt.Errorf("scan content ref: %w", err)
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

// DeleteScenes removes the given scene rows. Their content cascades at the
// database level and is not reflected in the returned count.
func (s *Store) DeleteScenes(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.exec(ctx, `DELETE FROM scenes WHERE id IN (`+placeholders(len(ids))+`)`, anySlice(ids)...)
	if err != nil {
		return 0, fmt.Errorf("delete scenes: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// DeleteContent removes the given content rows and returns the count.
func (s *Store) DeleteContent(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.exec(ctx, `DELETE FROM scene_content WHERE id IN (`+placeholders(len(ids))+`)`, anySlice(ids)...)
	if err != nil {
		return 0, fmt.Errorf("delete content: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// UpsertCharacters records the given names on the script's owning project,
// ignoring names already present.
func (s *Store) UpsertCharacters(ctx context.Context, scriptID string, names []string) error {
	if len(names) == 0 {
		return nil
	}
	var projectID string
	err := s.queryRow(ctx, `SELECT project_id FROM scripts WHERE id = ?`, scriptID).Scan(&projectID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("script project: %w", err)
	}
	for _, name := range names {
		_, err := s.exec(ctx,
			`INSERT INTO characters (id, project_id, name) VALUES (?, ?, ?)
			 ON CONFLICT (project_id, name) DO NOTHING`,
			uuid.NewString(), projectID, name)
		if err != nil {
			return fmt.Errorf("upsert character %q: %w", name, err)
		}
	}
	return nil
}

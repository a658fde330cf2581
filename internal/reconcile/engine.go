/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package reconcile implements the document sync engine: it flattens a
// submitted editor document into records, upserts them keyed by element id,
// and deletes persisted rows whose element ids no longer appear in the
// document (orphans).
package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/superficialadam/bl-agentic-rewrite/internal/log"
	"github.com/superficialadam/bl-agentic-rewrite/internal/screenplay"
)

// ErrEmptyDocument is returned when a sync is attempted with a document that
// has no blocks. An empty submission is rejected before any storage access
// so it can never wipe a script.
var ErrEmptyDocument = errors.New("reconcile: empty document")

// SceneRef identifies a persisted scene row for orphan comparison.
type SceneRef struct {
	ID        string
	ElementID string
}

// ContentRef identifies a persisted content row for orphan comparison.
type ContentRef struct {
	ID        string
	ElementID string
	SceneID   string
}

// Store is the persistence surface the engine drives. storage.Store
// implements it; tests substitute a fake.
type Store interface {
	// UpsertScene inserts or updates a scene row keyed by element id and
	// returns the row id.
	UpsertScene(ctx context.Context, scriptID string, s screenplay.SceneExtract) (string, error)
	// UpsertContent inserts or updates a content row keyed by element id
	// under the given scene row.
	UpsertContent(ctx context.Context, sceneID string, c screenplay.ContentExtract) error
	// SceneRefs lists all persisted scenes of a script.
	SceneRefs(ctx context.Context, scriptID string) ([]SceneRef, error)
	// ContentRefs lists all persisted content rows of the given scenes.
	ContentRefs(ctx context.Context, sceneIDs []string) ([]ContentRef, error)
	// DeleteScenes removes the given scene rows (content cascades) and
	// returns how many scene rows were deleted.
	DeleteScenes(ctx context.Context, ids []string) (int, error)
	// DeleteContent removes the given content rows and returns how many
	// were deleted.
	DeleteContent(ctx context.Context, ids []string) (int, error)
	// UpsertCharacters records the distinct speaking characters seen in a
	// script's document on the owning project.
	UpsertCharacters(ctx context.Context, scriptID string, names []string) error
}

// Result summarizes one sync run. Success is false on every error path and
// true once the whole pipeline has run.
type Result struct {
	Success         bool `json:"success"`
	ScenesUpserted  int  `json:"scenes_upserted"`
	ContentUpserted int  `json:"content_upserted"`
	OrphansDeleted  int  `json:"orphans_deleted"`
}

// Engine reconciles submitted documents against persisted script state.
type Engine struct {
	store Store
}

// New returns an engine backed by the given store.
func New(store Store) *Engine {
	return &Engine{store: store}
}

// Sync makes the persisted state of a script match the submitted document.
//
// The pipeline runs in a fixed order: upsert scenes (resolving row ids by
// element id), upsert content under the resolved scenes, delete orphaned
// scenes, then delete orphaned content among the surviving scenes.
// OrphansDeleted counts deleted scene rows plus directly deleted content
// rows; content removed by a scene's cascade is not counted.
//
// Content before the first scene heading and blocks without an element id
// never reach storage. Syncing the same document twice is idempotent: the
// second run reports zero orphans.
func (e *Engine) Sync(ctx context.Context, scriptID string, doc screenplay.Document) (Result, error) {
	var res Result
	if doc.Empty() {
		return res, ErrEmptyDocument
	}

	logger := log.WithComponent("reconcile").With("script_id", scriptID)

	scenes, contents := screenplay.ExtractRecords(doc)

	sceneIDByElement := make(map[string]string, len(scenes))
	for _, s := range scenes {
		id, err := e.store.UpsertScene(ctx, scriptID, s)
		if err != nil {
			return res, fmt.Errorf("upsert scene %s: %w", s.ElementID, err)
		}
		sceneIDByElement[s.ElementID] = id
		res.ScenesUpserted++
	}

	for _, c := range contents {
		sceneID, ok := sceneIDByElement[c.SceneElementID]
		if !ok {
			return res, fmt.Errorf("content %s references unknown scene %s", c.ElementID, c.SceneElementID)
		}
		if err := e.store.UpsertContent(ctx, sceneID, c); err != nil {
			return res, fmt.Errorf("upsert content %s: %w", c.ElementID, err)
		}
		res.ContentUpserted++
	}

	// Every element id present in the submission, scenes and content alike.
	submitted := make(map[string]bool, len(scenes)+len(contents))
	for _, s := range scenes {
		submitted[s.ElementID] = true
	}
	for _, c := range contents {
		submitted[c.ElementID] = true
	}

	persisted, err := e.store.SceneRefs(ctx, scriptID)
	if err != nil {
		return res, fmt.Errorf("list scenes: %w", err)
	}
	var orphanScenes []string
	var survivors []string
	for _, ref := range persisted {
		if submitted[ref.ElementID] {
			survivors = append(survivors, ref.ID)
		} else {
			orphanScenes = append(orphanScenes, ref.ID)
		}
	}
	if len(orphanScenes) > 0 {
		n, err := e.store.DeleteScenes(ctx, orphanScenes)
		if err != nil {
			return res, fmt.Errorf("delete orphan scenes: %w", err)
		}
		res.OrphansDeleted += n
	}

	if len(survivors) > 0 {
		rows, err := e.store.ContentRefs(ctx, survivors)
		if err != nil {
			return res, fmt.Errorf("list content: %w", err)
		}
		var orphanContent []string
		for _, ref := range rows {
			if !submitted[ref.ElementID] {
				orphanContent = append(orphanContent, ref.ID)
			}
		}
		if len(orphanContent) > 0 {
			n, err := e.store.DeleteContent(ctx, orphanContent)
			if err != nil {
				return res, fmt.Errorf("delete orphan content: %w", err)
			}
			res.OrphansDeleted += n
		}
	}

	if err := e.store.UpsertCharacters(ctx, scriptID, characterNames(contents)); err != nil {
		return res, fmt.Errorf("upsert characters: %w", err)
	}

	res.Success = true
	logger.Info("sync complete",
		"scenes_upserted", res.ScenesUpserted,
		"content_upserted", res.ContentUpserted,
		"orphans_deleted", res.OrphansDeleted)
	return res, nil
}

// characterNames collects the distinct derived names of character cues in
// document order.
func characterNames(contents []screenplay.ContentExtract) []string {
	var names []string
	seen := map[string]bool{}
	for _, c := range contents {
		if c.Type != "character" || c.CharacterName == nil {
			continue
		}
		n := *c.CharacterName
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		names = append(names, n)
	}
	return names
}

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
	"fmt"
)

// Schema, in dependency order. Ids are uuid strings generated in Go,
// timestamps RFC3339 text, booleans INTEGER 0/1, so the same DDL runs on
// SQLite and PostgreSQL.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		current_script_id TEXT,
		current_timeline_id TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS scripts (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS scenes (
		id TEXT PRIMARY KEY,
		script_id TEXT NOT NULL REFERENCES scripts(id) ON DELETE CASCADE,
		element_id TEXT NOT NULL UNIQUE,
		scene_number INTEGER,
		int_ext TEXT,
		location TEXT,
		time_of_day TEXT,
		order_index INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS scene_content (
		id TEXT PRIMARY KEY,
		scene_id TEXT NOT NULL REFERENCES scenes(id) ON DELETE CASCADE,
		element_id TEXT NOT NULL UNIQUE,
		type TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		character_name TEXT,
		order_index INTEGER NOT NULL,
		audio_asset_id TEXT,
		audio_status TEXT NOT NULL DEFAULT 'none',
		content_hash TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS timelines (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		duration_seconds REAL NOT NULL DEFAULT 60,
		frame_rate REAL NOT NULL DEFAULT 30,
		width INTEGER NOT NULL DEFAULT 1920,
		height INTEGER NOT NULL DEFAULT 1080
	)`,
	`CREATE TABLE IF NOT EXISTS tracks (
		id TEXT PRIMARY KEY,
		timeline_id TEXT NOT NULL REFERENCES timelines(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		order_index INTEGER NOT NULL,
		muted INTEGER NOT NULL DEFAULT 0,
		hidden INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS assets (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		file_url TEXT NOT NULL,
		file_type TEXT NOT NULL,
		duration_ms INTEGER,
		width INTEGER,
		height INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS clips (
		id TEXT PRIMARY KEY,
		track_id TEXT NOT NULL REFERENCES tracks(id) ON DELETE CASCADE,
		asset_id TEXT REFERENCES assets(id) ON DELETE SET NULL,
		start_frame INTEGER NOT NULL DEFAULT 0,
		duration_frames INTEGER NOT NULL DEFAULT 0,
		offset_frames INTEGER NOT NULL DEFAULT 0,
		name TEXT,
		volume REAL NOT NULL DEFAULT 1,
		opacity REAL NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS characters (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		UNIQUE (project_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS traces (
		id TEXT PRIMARY KEY,
		trace_id TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		event_type TEXT NOT NULL,
		function_name TEXT NOT NULL,
		arguments TEXT,
		result TEXT,
		error TEXT,
		duration_ms INTEGER
	)`,
	`CREATE INDEX IF NOT EXISTS idx_scenes_script_order ON scenes(script_id, order_index)`,
	`CREATE INDEX IF NOT EXISTS idx_scene_content_scene_order ON scene_content(scene_id, order_index)`,
	`CREATE INDEX IF NOT EXISTS idx_tracks_timeline_order ON tracks(timeline_id, order_index)`,
	`CREATE INDEX IF NOT EXISTS idx_clips_track_start ON clips(track_id, start_frame)`,
	`CREATE INDEX IF NOT EXISTS idx_traces_trace_id ON traces(trace_id)`,
}

func (s *Store) ensureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package domain defines the persisted data model: projects own scripts and
// timelines; a script owns an ordered sequence of scenes; a scene owns an
// ordered sequence of content rows. Scenes and content rows are correlated
// with the live editor document through their immutable element_id, never
// through structural position.
package domain

// Project groups a script and a timeline under a single production.
type Project struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Slug              string  `json:"slug"`
	CurrentScriptID   *string `json:"current_script_id"`
	CurrentTimelineID *string `json:"current_timeline_id"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

// Script is the container for a screenplay's scenes.
type Script struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Scene is one scene heading plus its structured fields. OrderIndex is
// zero-based, dense within the owning script and reassigned on every sync.
type Scene struct {
	ID          string  `json:"id"`
	ScriptID    string  `json:"script_id,omitempty"`
	ElementID   string  `json:"element_id"`
	SceneNumber *int    `json:"scene_number"`
	IntExt      *string `json:"int_ext"`
	Location    *string `json:"location"`
	TimeOfDay   *string `json:"time_of_day"`
	OrderIndex  int     `json:"order_index"`
}

// Content kinds for SceneContent.Type.
const (
	ContentAction        = "action"
	ContentCharacter     = "character"
	ContentDialogue      = "dialogue"
	ContentParenthetical = "parenthetical"
)

// SceneContent is one non-heading line owned by a scene. OrderIndex is
// zero-based and resets at each scene boundary. CharacterName is set for
// character cues (their own upper-cased text) and dialogue (inherited from
// the most recent cue in the same scene).
type SceneContent struct {
	ID            string  `json:"id"`
	SceneID       string  `json:"scene_id,omitempty"`
	ElementID     string  `json:"element_id"`
	Type          string  `json:"type"`
	Content       string  `json:"content"`
	CharacterName *string `json:"character_name"`
	OrderIndex    int     `json:"order_index"`
	AudioAssetID  *string `json:"audio_asset_id,omitempty"`
	AudioStatus   string  `json:"audio_status"`
	ContentHash   *string `json:"content_hash,omitempty"`
}

// SceneWithContent nests a scene's content rows in persisted order.
type SceneWithContent struct {
	Scene
	Content []SceneContent `json:"content"`
}

// Timeline is the clip-editing surface attached to a project.
type Timeline struct {
	ID              string  `json:"id"`
	ProjectID       string  `json:"project_id"`
	Name            string  `json:"name"`
	DurationSeconds float64 `json:"duration_seconds"`
	FrameRate       float64 `json:"frame_rate"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
}

// Track is an ordered lane (video or audio) within a timeline.
type Track struct {
	ID         string `json:"id"`
	TimelineID string `json:"timeline_id,omitempty"`
	Name       string `json:"name"`
	Type       string `json:"type"` // "video" or "audio"
	OrderIndex int    `json:"order_index"`
	Muted      bool   `json:"muted"`
	Hidden     bool   `json:"hidden"`
}

// Clip places an asset (or a placeholder) on a track.
type Clip struct {
	ID             string  `json:"id"`
	TrackID        string  `json:"track_id"`
	AssetID        *string `json:"asset_id"`
	StartFrame     int     `json:"start_frame"`
	DurationFrames int     `json:"duration_frames"`
	OffsetFrames   int     `json:"offset_frames"`
	Name           *string `json:"name"`
	Volume         float64 `json:"volume"`
	Opacity        float64 `json:"opacity"`
	Asset          *Asset  `json:"asset,omitempty"`
}

// Asset is a media file referenced by clips. Binary storage itself is out of
// scope; only the catalog row exists here.
type Asset struct {
	ID         string `json:"id"`
	ProjectID  string `json:"project_id,omitempty"`
	FileURL    string `json:"file_url"`
	FileType   string `json:"file_type"`
	DurationMS *int   `json:"duration_ms"`
	Width      *int   `json:"width"`
	Height     *int   `json:"height"`
}

// Character is a distinct speaking character within a project, derived from
// character cues during sync. Unique per (project, name).
type Character struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
}

// TraceEvent is one row of the request trace log.
type TraceEvent struct {
	TraceID      string  `json:"trace_id"`
	Timestamp    string  `json:"timestamp"`
	EventType    string  `json:"event_type"`
	FunctionName string  `json:"function_name"`
	Arguments    *string `json:"arguments,omitempty"`
	Result       *string `json:"result,omitempty"`
	Error        *string `json:"error,omitempty"`
	DurationMS   *int    `json:"duration_ms,omitempty"`
}

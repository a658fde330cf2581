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
	"strings"

	"github.com/google/uuid"

	"github.com/superficialadam/bl-agentic-rewrite/internal/domain"
)

// Client-fault errors for clip edits. The API layer maps these to 400.
var (
	ErrTrackNotOnTimeline = errors.New("storage: track is not on the timeline")
	ErrNoUpdateFields     = errors.New("storage: no valid fields to update")
)

// TrackWithClips nests a track's clips, each with its asset joined in.
type TrackWithClips struct {
	domain.Track
	Clips []domain.Clip `json:"clips"`
}

// TimelineWithTracks is the full editing surface for one timeline.
type TimelineWithTracks struct {
	domain.Timeline
	Tracks []TrackWithClips `json:"tracks"`
}

// TimelineByID loads a timeline with its tracks in order and each track's
// clips sorted by start frame, assets joined in.
func (s *Store) TimelineByID(ctx context.Context, id string) (TimelineWithTracks, error) {
	var tl TimelineWithTracks
	err := s.queryRow(ctx,
		`SELECT id, project_id, name, duration_seconds, frame_rate, width, height FROM timelines WHERE id = ?`, id).
		Scan(&tl.ID, &tl.ProjectID, &tl.Name, &tl.DurationSeconds, &tl.FrameRate, &tl.Width, &tl.Height)
	if errors.Is(err, sql.ErrNoRows) {
		return tl, ErrNotFound
	}
	if err != nil {
		return tl, fmt.Errorf("timeline by id: %w", err)
	}

	rows, err := s.query(ctx,
		`SELECT id, name, type, order_index, muted, hidden FROM tracks WHERE timeline_id = ? ORDER BY order_index`, id)
	if err != nil {
		return tl, fmt.Errorf("list tracks: %w", err)
	}
	defer rows.Close()

	index := map[string]int{}
	for rows.Next() {
		var t TrackWithClips
		if err := rows.Scan(&t.ID, &t.Name, &t.Type, &t.OrderIndex, &t.Muted, &t.Hidden); err != nil {
			return tl, fmt.Errorf("scan track: %w", err)
		}
		t.TimelineID = id
		index[t.ID] = len(tl.Tracks)
		tl.Tracks = append(tl.Tracks, t)
	}
	if err := rows.Err(); err != nil {
		return tl, err
	}
	if len(tl.Tracks) == 0 {
		return tl, nil
	}

	trackIDs := make([]string, len(tl.Tracks))
	for i, t := range tl.Tracks {
		trackIDs[i] = t.ID
	}
	crows, err := s.query(ctx,
		`SELECT c.id, c.track_id, c.asset_id, c.start_frame, c.duration_frames, c.offset_frames, c.name, c.volume, c.opacity,
			a.id, a.file_url, a.file_type, a.duration_ms, a.width, a.height
		 FROM clips c LEFT JOIN assets a ON a.id = c.asset_id
		 WHERE c.track_id IN (`+placeholders(len(trackIDs))+`)
		 ORDER BY c.track_id, c.start_frame`,
		anySlice(trackIDs)...)
	if err != nil {
		return tl, fmt.Errorf("list clips: %w", err)
	}
	defer crows.Close()

	for crows.Next() {
		var c domain.Clip
		var aID, aURL, aType *string
		var aDur, aW, aH *int
		if err := crows.Scan(&c.ID, &c.TrackID, &c.AssetID, &c.StartFrame, &c.DurationFrames, &c.OffsetFrames, &c.Name, &c.Volume, &c.Opacity,
			&aID, &aURL, &aType, &aDur, &aW, &aH); err != nil {
			return tl, fmt.Errorf("scan clip: %w", err)
		}
		if aID != nil {
			c.Asset = &domain.Asset{ID: *aID, FileURL: *aURL, FileType: *aType, DurationMS: aDur, Width: aW, Height: aH}
		}
		i := index[c.TrackID]
		tl.Tracks[i].Clips = append(tl.Tracks[i].Clips, c)
	}
	return tl, crows.Err()
}

// NewClip is the payload for creating a clip on a timeline's track.
type NewClip struct {
	TrackID        string  `json:"track_id"`
	AssetID        *string `json:"asset_id"`
	StartFrame     int     `json:"start_frame"`
	DurationFrames int     `json:"duration_frames"`
	OffsetFrames   int     `json:"offset_frames"`
	Name           *string `json:"name"`
}

// CreateClip places a clip on a track after verifying the track belongs to
// the given timeline.
func (s *Store) CreateClip(ctx context.Context, timelineID string, nc NewClip) (domain.Clip, error) {
	var c domain.Clip
	var owner string
	err := s.queryRow(ctx, `SELECT timeline_id FROM tracks WHERE id = ?`, nc.TrackID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return c, ErrNotFound
	}
	if err != nil {
		return c, fmt.Errorf("track lookup: %w", err)
	}
	if owner != timelineID {
		return c, fmt.Errorf("track %s on timeline %s: %w", nc.TrackID, timelineID, ErrTrackNotOnTimeline)
	}

	c = domain.Clip{
		ID:             uuid.NewString(),
		TrackID:        nc.TrackID,
		AssetID:        nc.AssetID,
		StartFrame:     nc.StartFrame,
		DurationFrames: nc.DurationFrames,
		OffsetFrames:   nc.OffsetFrames,
		Name:           nc.Name,
		Volume:         1,
		Opacity:        1,
	}
	_, err = s.exec(ctx,
		`INSERT INTO clips (id, track_id, asset_id, start_frame, duration_frames, offset_frames, name, volume, opacity)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.TrackID, c.AssetID, c.StartFrame, c.DurationFrames, c.OffsetFrames, c.Name, c.Volume, c.Opacity)
	if err != nil {
		return c, fmt.Errorf("create clip: %w", err)
	}
	return c, nil
}

// ClipUpdate carries the editable clip fields; nil means leave unchanged.
// Track and asset assignment are not editable through updates.
type ClipUpdate struct {
	StartFrame     *int     `json:"start_frame"`
	DurationFrames *int     `json:"duration_frames"`
	OffsetFrames   *int     `json:"offset_frames"`
	Volume         *float64 `json:"volume"`
	Opacity        *float64 `json:"opacity"`
}

// UpdateClip applies the set fields of u to a clip and returns the updated
// row.
func (s *Store) UpdateClip(ctx context.Context, id string, u ClipUpdate) (domain.Clip, error) {
	var sets []string
	var args []any
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if u.StartFrame != nil {
		add("start_frame", *u.StartFrame)
	}
	if u.DurationFrames != nil {
		add("duration_frames", *u.DurationFrames)
	}
	if u.OffsetFrames != nil {
		add("offset_frames", *u.OffsetFrames)
	}
	if u.Volume != nil {
		add("volume", *u.Volume)
	}
	if u.Opacity != nil {
		add("opacity", *u.Opacity)
	}

	if len(sets) == 0 {
		return domain.Clip{}, ErrNoUpdateFields
	}
	args = append(args, id)
	res, err := s.exec(ctx, `UPDATE clips SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return domain.Clip{}, fmt.Errorf("update clip: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Clip{}, ErrNotFound
	}

	var c domain.Clip
	err = s.queryRow(ctx,
		`SELECT id, track_id, asset_id, start_frame, duration_frames, offset_frames, name, volume, opacity FROM clips WHERE id = ?`, id).
		Scan(&c.ID, &c.TrackID, &c.AssetID, &c.StartFrame, &c.DurationFrames, &c.OffsetFrames, &c.Name, &c.Volume, &c.Opacity)
	if errors.Is(err, sql.ErrNoRows) {
		return c, ErrNotFound
	}
	if err != nil {
		return c, fmt.Errorf("clip by id: %w", err)
	}
	return c, nil
}

// DeleteClip removes one clip.
func (s *Store) DeleteClip(ctx context.Context, id string) error {
	res, err := s.exec(ctx, `DELETE FROM clips WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete clip: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateAsset registers a media file in the project's asset catalog.
func (s *Store) CreateAsset(ctx context.Context, a domain.Asset) (domain.Asset, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	_, err := s.exec(ctx,
		`INSERT INTO assets (id, project_id, file_url, file_type, duration_ms, width, height) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.ProjectID, a.FileURL, a.FileType, a.DurationMS, a.Width, a.Height)
	if err != nil {
		return a, fmt.Errorf("create asset: %w", err)
	}
	return a, nil
}

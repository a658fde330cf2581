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

	"github.com/google/uuid"

	"github.com/superficialadam/bl-agentic-rewrite/internal/domain"
)

// InsertTrace appends one event to the trace log.
func (s *Store) InsertTrace(ctx context.Context, ev domain.TraceEvent) error {
	_, err := s.exec(ctx,
		`INSERT INTO traces (id, trace_id, timestamp, event_type, function_name, arguments, result, error, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), ev.TraceID, ev.Timestamp, ev.EventType, ev.FunctionName, ev.Arguments, ev.Result, ev.Error, ev.DurationMS)
	if err != nil {
		return fmt.Errorf("insert trace: %w", err)
	}
	return nil
}

// TracesByID returns all events of one trace in insertion order.
func (s *Store) TracesByID(ctx context.Context, traceID string) ([]domain.TraceEvent, error) {
	rows, err := s.query(ctx,
		`SELECT trace_id, timestamp, event_type, function_name, arguments, result, error, duration_ms
		 FROM traces WHERE trace_id = ? ORDER BY timestamp`, traceID)
	if err != nil {
		return nil, fmt.Errorf("list traces: %w", err)
	}
	defer rows.Close()

	var out []domain.TraceEvent
	for rows.Next() {
		var ev domain.TraceEvent
		if err := rows.Scan(&ev.TraceID, &ev.Timestamp, &ev.EventType, &ev.FunctionName, &ev.Arguments, &ev.Result, &ev.Error, &ev.DurationMS); err != nil {
			return nil, fmt.Errorf("scan trace: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

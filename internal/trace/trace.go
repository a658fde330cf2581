/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package trace records per-request execution traces: one trace id groups
// every event of a request, and Traced wraps mutations and API calls to
// capture their result or error plus wall-clock duration.
package trace

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/superficialadam/bl-agentic-rewrite/internal/domain"
	"github.com/superficialadam/bl-agentic-rewrite/internal/log"
)

// Event types.
const (
	EventRequestStart = "request_start"
	EventMutation     = "mutation"
	EventAPICall      = "api_call"
	EventError        = "error"
)

// Sink receives trace events. storage.Store implements it.
type Sink interface {
	InsertTrace(ctx context.Context, ev domain.TraceEvent) error
}

// Recorder writes trace events to a sink. A trace write failure is logged
// and swallowed; tracing must never fail the traced operation.
type Recorder struct {
	sink Sink
}

// NewRecorder returns a recorder writing to sink.
func NewRecorder(sink Sink) *Recorder {
	return &Recorder{sink: sink}
}

// NewID returns a fresh trace id for a request.
func NewID() string { return uuid.NewString() }

func (r *Recorder) write(ctx context.Context, ev domain.TraceEvent) {
	if r == nil || r.sink == nil {
		return
	}
	if err := r.sink.InsertTrace(ctx, ev); err != nil {
		log.WithComponent("trace").Warn("trace write failed", "err", err, "trace_id", ev.TraceID)
	}
}

// RequestStart records the beginning of a request.
func (r *Recorder) RequestStart(ctx context.Context, traceID, name string, args any) {
	r.write(ctx, domain.TraceEvent{
		TraceID:      traceID,
		Timestamp:    time.Now().UTC().Format(time.RFC3339Nano),
		EventType:    EventRequestStart,
		FunctionName: name,
		Arguments:    encode(args),
	})
}

// Traced runs fn and records one event for it: the event type and JSON
// result on success, an error event with the error text on failure. The
// original error is returned unchanged.
func (r *Recorder) Traced(ctx context.Context, traceID, name, eventType string, fn func(ctx context.Context) (any, error)) (any, error) {
	start := time.Now()
	result, err := fn(ctx)
	dur := int(time.Since(start).Milliseconds())

	ev := domain.TraceEvent{
		TraceID:      traceID,
		Timestamp:    time.Now().UTC().Format(time.RFC3339Nano),
		EventType:    eventType,
		FunctionName: name,
		DurationMS:   &dur,
	}
	if err != nil {
		msg := err.Error()
		ev.EventType = EventError
		ev.Error = &msg
		r.write(ctx, ev)
		return result, err
	}
	ev.Result = encode(result)
	r.write(ctx, ev)
	return result, nil
}

// encode renders a value as JSON for the arguments/result columns, nil in
// and unencodable values out as nil.
func encode(v any) *string {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	s := string(data)
	return &s
}

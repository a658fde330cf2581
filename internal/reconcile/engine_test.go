/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/superficialadam/bl-agentic-rewrite/internal/screenplay"
)

type fakeScene struct {
	id        string
	elementID string
}

type fakeContent struct {
	id        string
	elementID string
	sceneID   string
}

// fakeStore keeps scenes and content in memory, keyed the way the real
// store is: element id resolves to a stable row id.
type fakeStore struct {
	nextID     int
	scenes     map[string]*fakeScene   // element id -> row
	contents   map[string]*fakeContent // element id -> row
	characters []string
	calls      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		scenes:   map[string]*fakeScene{},
		contents: map[string]*fakeContent{},
	}
}

func (f *fakeStore) newID() string {
	f.nextID++
	return "row-" + string(rune('a'+f.nextID-1))
}

func (f *fakeStore) UpsertScene(_ context.Context, _ string, s screenplay.SceneExtract) (string, error) {
	f.calls++
	if row, ok := f.scenes[s.ElementID]; ok {
		return row.id, nil
	}
	row := &fakeScene{id: f.newID(), elementID: s.ElementID}
	f.scenes[s.ElementID] = row
	return row.id, nil
}

func (f *fakeStore) UpsertContent(_ context.Context, sceneID string, c screenplay.ContentExtract) error {
	f.calls++
	if row, ok := f.contents[c.ElementID]; ok {
		row.sceneID = sceneID
		return nil
	}
	f.contents[c.ElementID] = &fakeContent{id: f.newID(), elementID: c.ElementID, sceneID: sceneID}
	return nil
}

func (f *fakeStore) SceneRefs(_ context.Context, _ string) ([]SceneRef, error) {
	f.calls++
	var refs []SceneRef
	for _, row := range f.scenes {
		refs = append(refs, SceneRef{ID: row.id, ElementID: row.elementID})
	}
	return refs, nil
}

func (f *fakeStore) ContentRefs(_ context.Context, sceneIDs []string) ([]ContentRef, error) {
	f.calls++
	in := map[string]bool{}
	for _, id := range sceneIDs {
		in[id] = true
	}
	var refs []ContentRef
	for _, row := range f.contents {
		if in[row.sceneID] {
			refs = append(refs, ContentRef{ID: row.id, ElementID: row.elementID, SceneID: row.sceneID})
		}
	}
	return refs, nil
}

func (f *fakeStore) DeleteScenes(_ context.Context, ids []string) (int, error) {
	f.calls++
	doomed := map[string]bool{}
	for _, id := range ids {
		doomed[id] = true
	}
	n := 0
	for elem, row := range f.scenes {
		if doomed[row.id] {
			delete(f.scenes, elem)
			n++
		}
	}
	// Cascade: content of deleted scenes goes with them, uncounted.
	for elem, row := range f.contents {
		if doomed[row.sceneID] {
			delete(f.contents, elem)
		}
	}
	return n, nil
}

func (f *fakeStore) DeleteContent(_ context.Context, ids []string) (int, error) {
	f.calls++
	doomed := map[string]bool{}
	for _, id := range ids {
		doomed[id] = true
	}
	n := 0
	for elem, row := range f.contents {
		if doomed[row.id] {
			delete(f.contents, elem)
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) UpsertCharacters(_ context.Context, _ string, names []string) error {
	f.calls++
	f.characters = names
	return nil
}

func strp(s string) *string { return &s }
func intp(n int) *int       { return &n }

func heading(id string, num int, loc string) screenplay.SceneHeading {
	return screenplay.SceneHeading{ID: id, SceneNumber: intp(num), IntExt: strp("INT"), Location: strp(loc), TimeOfDay: strp("DAY")}
}

func TestSyncRejectsEmptyDocument(t *testing.T) {
	store := newFakeStore()
	eng := New(store)

	_, err := eng.Sync(context.Background(), "script-1", screenplay.Document{})
	if !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
	if store.calls != 0 {
		t.Fatalf("empty document must not touch storage, saw %d calls", store.calls)
	}
}

func TestSyncInitialDocument(t *testing.T) {
	store := newFakeStore()
	eng := New(store)

	doc := screenplay.Document{Blocks: []screenplay.Block{
		heading("s1", 1, "KITCHEN"),
		screenplay.Action{ID: "a1", Text: "John enters."},
		screenplay.Character{ID: "c1", Text: "JOHN"},
		screenplay.Dialogue{ID: "d1", Text: "Hello."},
		heading("s2", 2, "PARK"),
		screenplay.Action{ID: "a2", Text: "Birds scatter."},
	}}

	res, err := eng.Sync(context.Background(), "script-1", doc)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if !res.Success {
		t.Fatalf("success flag not set: %+v", res)
	}
	if res.ScenesUpserted != 2 {
		t.Fatalf("scenes upserted: got %d, want 2", res.ScenesUpserted)
	}
	if res.ContentUpserted != 4 {
		t.Fatalf("content upserted: got %d, want 4", res.ContentUpserted)
	}
	if res.OrphansDeleted != 0 {
		t.Fatalf("orphans on first sync: got %d, want 0", res.OrphansDeleted)
	}
	if len(store.characters) != 1 || store.characters[0] != "JOHN" {
		t.Fatalf("characters: %v", store.characters)
	}
}

func TestSyncIsIdempotent(t *testing.T) {
	store := newFakeStore()
	eng := New(store)

	doc := screenplay.Document{Blocks: []screenplay.Block{
		heading("s1", 1, "KITCHEN"),
		screenplay.Action{ID: "a1", Text: "John enters."},
	}}

	if _, err := eng.Sync(context.Background(), "script-1", doc); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	res, err := eng.Sync(context.Background(), "script-1", doc)
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if res.OrphansDeleted != 0 {
		t.Fatalf("second identical sync must report zero orphans, got %d", res.OrphansDeleted)
	}
	if res.ScenesUpserted != 1 || res.ContentUpserted != 1 {
		t.Fatalf("second sync counts: %+v", res)
	}
}

func TestSyncDeletesOrphans(t *testing.T) {
	store := newFakeStore()
	eng := New(store)

	// Two scenes; the second carries content that will be cascaded.
	first := screenplay.Document{Blocks: []screenplay.Block{
		heading("s1", 1, "KITCHEN"),
		screenplay.Action{ID: "a1", Text: "John enters."},
		screenplay.Character{ID: "c1", Text: "JOHN"},
		screenplay.Dialogue{ID: "d1", Text: "Hello."},
		heading("s2", 2, "PARK"),
		screenplay.Action{ID: "a2", Text: "Birds scatter."},
	}}
	if _, err := eng.Sync(context.Background(), "script-1", first); err != nil {
		t.Fatalf("seed sync: %v", err)
	}

	// Drop scene s2 entirely plus two content rows of the surviving scene.
	second := screenplay.Document{Blocks: []screenplay.Block{
		heading("s1", 1, "KITCHEN"),
		screenplay.Action{ID: "a1", Text: "John enters."},
	}}
	res, err := eng.Sync(context.Background(), "script-1", second)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}

	// One deleted scene row plus two deleted content rows. The content that
	// cascaded with s2 is not counted.
	if res.OrphansDeleted != 3 {
		t.Fatalf("orphans: got %d, want 3", res.OrphansDeleted)
	}
	if len(store.scenes) != 1 {
		t.Fatalf("surviving scenes: %d", len(store.scenes))
	}
	if len(store.contents) != 1 {
		t.Fatalf("surviving content rows: %d", len(store.contents))
	}
	if _, ok := store.contents["a1"]; !ok {
		t.Fatalf("a1 must survive")
	}
}

func TestSyncReordersWithoutOrphans(t *testing.T) {
	store := newFakeStore()
	eng := New(store)

	first := screenplay.Document{Blocks: []screenplay.Block{
		heading("s1", 1, "KITCHEN"),
		heading("s2", 2, "PARK"),
	}}
	if _, err := eng.Sync(context.Background(), "script-1", first); err != nil {
		t.Fatalf("seed sync: %v", err)
	}

	reordered := screenplay.Document{Blocks: []screenplay.Block{
		heading("s2", 2, "PARK"),
		heading("s1", 1, "KITCHEN"),
	}}
	res, err := eng.Sync(context.Background(), "script-1", reordered)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if res.OrphansDeleted != 0 {
		t.Fatalf("reorder must not orphan anything, got %d", res.OrphansDeleted)
	}
	if len(store.scenes) != 2 {
		t.Fatalf("scenes after reorder: %d", len(store.scenes))
	}
}

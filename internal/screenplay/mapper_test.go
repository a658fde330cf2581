/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package screenplay

import (
	"testing"

	"github.com/superficialadam/bl-agentic-rewrite/internal/domain"
)

func TestExtractRecords(t *testing.T) {
	doc := Document{Blocks: []Block{
		SceneHeading{ID: "elem-1", SceneNumber: intp(201), IntExt: strp("INT"), Location: strp("KITCHEN"), TimeOfDay: strp("DAY")},
		Action{ID: "elem-2", Text: "John enters."},
		Character{ID: "elem-3", Text: "JOHN"},
		Dialogue{ID: "elem-4", Text: "Hello."},
	}}

	scenes, contents := ExtractRecords(doc)

	if len(scenes) != 1 {
		t.Fatalf("scenes: got %d, want 1", len(scenes))
	}
	s := scenes[0]
	if s.ElementID != "elem-1" || s.OrderIndex != 0 {
		t.Fatalf("scene identity: %+v", s)
	}
	eqInt(t, "scene_number", s.SceneNumber, intp(201))
	eqStr(t, "int_ext", s.IntExt, strp("INT"))
	eqStr(t, "location", s.Location, strp("KITCHEN"))

	if len(contents) != 3 {
		t.Fatalf("contents: got %d, want 3", len(contents))
	}
	if contents[0].Type != domain.ContentAction || contents[0].Content != "John enters." {
		t.Fatalf("action row: %+v", contents[0])
	}
	if contents[0].SceneElementID != "elem-1" {
		t.Fatalf("action scene attribution: %q", contents[0].SceneElementID)
	}
	if contents[0].CharacterName != nil {
		t.Fatalf("action must not carry a character name: %v", *contents[0].CharacterName)
	}
	eqStr(t, "cue name", contents[1].CharacterName, strp("JOHN"))
	eqStr(t, "dialogue name", contents[2].CharacterName, strp("JOHN"))
	for i, c := range contents {
		if c.OrderIndex != i {
			t.Fatalf("content order index %d: got %d", i, c.OrderIndex)
		}
	}
}

func TestExtractRecordsSkipsBlocksWithoutElementID(t *testing.T) {
	doc := Document{Blocks: []Block{
		SceneHeading{ID: "e1", SceneNumber: intp(1), IntExt: strp("INT"), Location: strp("A")},
		Action{Text: "No ID node"},
	}}
	_, contents := ExtractRecords(doc)
	if len(contents) != 0 {
		t.Fatalf("expected no contents, got %d", len(contents))
	}
}

func TestExtractRecordsDropsContentBeforeFirstHeading(t *testing.T) {
	doc := Document{Blocks: []Block{
		Action{ID: "orphan", Text: "Orphan text"},
		SceneHeading{ID: "e1", SceneNumber: intp(1), IntExt: strp("INT"), Location: strp("A")},
	}}
	scenes, contents := ExtractRecords(doc)
	if len(scenes) != 1 {
		t.Fatalf("scenes: got %d, want 1", len(scenes))
	}
	if len(contents) != 0 {
		t.Fatalf("expected no contents, got %d", len(contents))
	}
}

func TestExtractRecordsTracksCharacterName(t *testing.T) {
	doc := Document{Blocks: []Block{
		SceneHeading{ID: "e1", SceneNumber: intp(1), IntExt: strp("INT"), Location: strp("A")},
		Character{ID: "e2", Text: "Mary"},
		Dialogue{ID: "e3", Text: "Hi there."},
		Character{ID: "e4", Text: "Bob"},
		Dialogue{ID: "e5", Text: "Hey."},
	}}
	_, contents := ExtractRecords(doc)
	want := []string{"MARY", "MARY", "BOB", "BOB"}
	if len(contents) != len(want) {
		t.Fatalf("contents: got %d, want %d", len(contents), len(want))
	}
	for i, w := range want {
		eqStr(t, "character name", contents[i].CharacterName, strp(w))
	}
}

func TestExtractRecordsResetsNameAndOrderPerScene(t *testing.T) {
	doc := Document{Blocks: []Block{
		SceneHeading{ID: "s1", SceneNumber: intp(1), IntExt: strp("INT"), Location: strp("A")},
		Character{ID: "c1", Text: "MARY"},
		Dialogue{ID: "d1", Text: "First."},
		SceneHeading{ID: "s2", SceneNumber: intp(2), IntExt: strp("EXT"), Location: strp("B")},
		Dialogue{ID: "d2", Text: "Who says this?"},
	}}
	scenes, contents := ExtractRecords(doc)
	if scenes[0].OrderIndex != 0 || scenes[1].OrderIndex != 1 {
		t.Fatalf("scene order: %d, %d", scenes[0].OrderIndex, scenes[1].OrderIndex)
	}
	last := contents[len(contents)-1]
	if last.SceneElementID != "s2" || last.OrderIndex != 0 {
		t.Fatalf("second scene content must restart ordering: %+v", last)
	}
	if last.CharacterName != nil {
		t.Fatalf("carried name must reset at scene boundary: %v", *last.CharacterName)
	}
}

func TestBuildDocument(t *testing.T) {
	scenes := []domain.SceneWithContent{
		{
			Scene: domain.Scene{
				ID: "scene-1", ElementID: "elem-1",
				SceneNumber: intp(201), IntExt: strp("INT"), Location: strp("KITCHEN"), TimeOfDay: strp("DAY"),
			},
			Content: []domain.SceneContent{
				{ID: "c1", ElementID: "elem-2", Type: domain.ContentAction, Content: "John enters the room."},
				{ID: "c2", ElementID: "elem-3", Type: domain.ContentCharacter, Content: "JOHN", CharacterName: strp("JOHN"), OrderIndex: 1},
				{ID: "c3", ElementID: "elem-4", Type: domain.ContentDialogue, Content: "Hello, world.", CharacterName: strp("JOHN"), OrderIndex: 2},
			},
		},
	}

	doc := BuildDocument(scenes)
	if len(doc.Blocks) != 4 {
		t.Fatalf("blocks: got %d, want 4", len(doc.Blocks))
	}
	h, ok := doc.Blocks[0].(SceneHeading)
	if !ok || h.ID != "elem-1" {
		t.Fatalf("first block must be the heading: %+v", doc.Blocks[0])
	}
	d, ok := doc.Blocks[3].(Dialogue)
	if !ok || d.Text != "Hello, world." {
		t.Fatalf("dialogue block: %+v", doc.Blocks[3])
	}
	eqStr(t, "dialogue name", d.CharacterName, strp("JOHN"))
}

func TestBuildDocumentExtractRoundTrip(t *testing.T) {
	scenes := []domain.SceneWithContent{
		{
			Scene:   domain.Scene{ElementID: "e1", SceneNumber: intp(1), IntExt: strp("INT"), Location: strp("OFFICE"), TimeOfDay: strp("DAY")},
			Content: []domain.SceneContent{{ElementID: "e2", Type: domain.ContentAction, Content: "Phones ring."}},
		},
		{
			Scene: domain.Scene{ElementID: "e3", SceneNumber: intp(2), IntExt: strp("EXT"), Location: strp("STREET"), TimeOfDay: strp("NIGHT"), OrderIndex: 1},
			Content: []domain.SceneContent{
				{ElementID: "e4", Type: domain.ContentCharacter, Content: "MARY", CharacterName: strp("MARY")},
				{ElementID: "e5", Type: domain.ContentDialogue, Content: "Taxi!", CharacterName: strp("MARY"), OrderIndex: 1},
			},
		},
	}

	gotScenes, gotContents := ExtractRecords(BuildDocument(scenes))
	if len(gotScenes) != 2 || len(gotContents) != 3 {
		t.Fatalf("round trip shape: %d scenes, %d contents", len(gotScenes), len(gotContents))
	}
	for i, s := range gotScenes {
		if s.ElementID != scenes[i].ElementID || s.OrderIndex != i {
			t.Fatalf("scene %d: %+v", i, s)
		}
	}
	if gotContents[1].SceneElementID != "e3" || gotContents[1].OrderIndex != 0 {
		t.Fatalf("second scene first content: %+v", gotContents[1])
	}
	eqStr(t, "derived name survives round trip", gotContents[2].CharacterName, strp("MARY"))
}

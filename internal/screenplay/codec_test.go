/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package screenplay

import (
	"encoding/json"
	"testing"
)

func TestUnmarshalDocument(t *testing.T) {
	raw := `{
		"type": "doc",
		"content": [
			{
				"type": "sceneHeading",
				"attrs": {"element_id": "elem-1", "scene_number": 201, "int_ext": "INT", "location": "KITCHEN", "time_of_day": "DAY"},
				"content": [{"type": "text", "text": "201. INT. KITCHEN - DAY"}]
			},
			{
				"type": "action",
				"attrs": {"element_id": "elem-2"},
				"content": [{"type": "text", "text": "John enters."}]
			},
			{
				"type": "character",
				"attrs": {"element_id": "elem-3", "character_name": "JOHN"},
				"content": [{"type": "text", "text": "JOHN"}]
			},
			{
				"type": "dialogue",
				"attrs": {"element_id": "elem-4", "character_name": "JOHN"},
				"content": [{"type": "text", "text": "Hello."}]
			}
		]
	}`

	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(doc.Blocks) != 4 {
		t.Fatalf("blocks: got %d, want 4", len(doc.Blocks))
	}

	h, ok := doc.Blocks[0].(SceneHeading)
	if !ok {
		t.Fatalf("first block is %T, want SceneHeading", doc.Blocks[0])
	}
	if h.ID != "elem-1" {
		t.Fatalf("heading id: %q", h.ID)
	}
	eqInt(t, "scene_number", h.SceneNumber, intp(201))
	eqStr(t, "location", h.Location, strp("KITCHEN"))

	a, ok := doc.Blocks[1].(Action)
	if !ok || a.Text != "John enters." {
		t.Fatalf("action block: %+v", doc.Blocks[1])
	}
	d, ok := doc.Blocks[3].(Dialogue)
	if !ok || d.ID != "elem-4" || d.Text != "Hello." {
		t.Fatalf("dialogue block: %+v", doc.Blocks[3])
	}
	eqStr(t, "dialogue name attr", d.CharacterName, strp("JOHN"))
}

func TestUnmarshalSkipsUnknownNodeTypes(t *testing.T) {
	raw := `{
		"type": "doc",
		"content": [
			{"type": "paragraph", "attrs": {"element_id": "x"}, "content": [{"type": "text", "text": "stray"}]},
			{"type": "action", "attrs": {"element_id": "a1"}, "content": [{"type": "text", "text": "Kept."}]}
		]
	}`
	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(doc.Blocks) != 1 {
		t.Fatalf("blocks: got %d, want 1", len(doc.Blocks))
	}
}

func TestUnmarshalMissingAttrsReadAsNull(t *testing.T) {
	raw := `{
		"type": "doc",
		"content": [
			{"type": "sceneHeading", "attrs": {"element_id": "e1"}},
			{"type": "action"}
		]
	}`
	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	h := doc.Blocks[0].(SceneHeading)
	if h.SceneNumber != nil || h.IntExt != nil || h.Location != nil || h.TimeOfDay != nil {
		t.Fatalf("absent attrs must read as null: %+v", h)
	}
	if doc.Blocks[1].ElementID() != "" {
		t.Fatalf("attrless action must have empty element id")
	}
}

func TestUnmarshalFlattensNestedText(t *testing.T) {
	raw := `{
		"type": "doc",
		"content": [
			{"type": "sceneHeading", "attrs": {"element_id": "e1", "scene_number": 1, "int_ext": "INT", "location": "A"}},
			{
				"type": "dialogue",
				"attrs": {"element_id": "e2"},
				"content": [
					{"type": "text", "text": "Hello, "},
					{"type": "span", "content": [{"type": "text", "text": "wor"}, {"type": "text", "text": "ld."}]}
				]
			}
		]
	}`
	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	d := doc.Blocks[1].(Dialogue)
	if d.Text != "Hello, world." {
		t.Fatalf("flattened text: %q", d.Text)
	}
}

func TestMarshalDocument(t *testing.T) {
	doc := Document{Blocks: []Block{
		SceneHeading{ID: "elem-1", SceneNumber: intp(201), IntExt: strp("INT"), Location: strp("KITCHEN"), TimeOfDay: strp("DAY")},
		Action{ID: "elem-2", Text: "John enters the room."},
		Character{ID: "elem-3", Text: "JOHN", CharacterName: strp("JOHN")},
		Dialogue{ID: "elem-4", Text: "Hello, world.", CharacterName: strp("JOHN")},
	}}

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var wire struct {
		Type    string `json:"type"`
		Content []struct {
			Type    string         `json:"type"`
			Attrs   map[string]any `json:"attrs"`
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"content"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("re-decode: %v", err)
	}
	if wire.Type != "doc" || len(wire.Content) != 4 {
		t.Fatalf("wire shape: type=%q len=%d", wire.Type, len(wire.Content))
	}

	heading := wire.Content[0]
	if heading.Type != "sceneHeading" || heading.Attrs["element_id"] != "elem-1" {
		t.Fatalf("heading node: %+v", heading)
	}
	if n, ok := heading.Attrs["scene_number"].(float64); !ok || n != 201 {
		t.Fatalf("scene_number attr: %v", heading.Attrs["scene_number"])
	}
	if heading.Content[0].Text != "201. INT. KITCHEN - DAY" {
		t.Fatalf("heading display text: %q", heading.Content[0].Text)
	}

	if wire.Content[1].Content[0].Text != "John enters the room." {
		t.Fatalf("action text: %+v", wire.Content[1])
	}
	if wire.Content[2].Attrs["character_name"] != "JOHN" {
		t.Fatalf("cue name attr: %v", wire.Content[2].Attrs["character_name"])
	}
	if wire.Content[3].Attrs["character_name"] != "JOHN" {
		t.Fatalf("dialogue name attr: %v", wire.Content[3].Attrs["character_name"])
	}
}

func TestMarshalOmitsTextSpanForEmptyContent(t *testing.T) {
	doc := Document{Blocks: []Block{
		SceneHeading{ID: "e1", SceneNumber: intp(1), IntExt: strp("EXT"), Location: strp("PARK")},
		Dialogue{ID: "e2"},
	}}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var wire struct {
		Content []struct {
			Content []json.RawMessage `json:"content"`
		} `json:"content"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("re-decode: %v", err)
	}
	if len(wire.Content[0].Content) != 1 {
		t.Fatalf("heading must carry its display text span")
	}
	if len(wire.Content[1].Content) != 0 {
		t.Fatalf("empty dialogue must omit the text span")
	}
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	orig := Document{Blocks: []Block{
		SceneHeading{ID: "e1", SceneNumber: intp(1), IntExt: strp("INT"), Location: strp("OFFICE"), TimeOfDay: strp("DAY")},
		Action{ID: "e2", Text: "Phones ring."},
		Character{ID: "e3", Text: "MARY", CharacterName: strp("MARY")},
		Parenthetical{ID: "e4", Text: "(annoyed)"},
		Dialogue{ID: "e5", Text: "Not again.", CharacterName: strp("MARY")},
	}}

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Document
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got.Blocks) != len(orig.Blocks) {
		t.Fatalf("blocks: got %d, want %d", len(got.Blocks), len(orig.Blocks))
	}
	for i := range orig.Blocks {
		if got.Blocks[i].ElementID() != orig.Blocks[i].ElementID() {
			t.Fatalf("block %d id: %q", i, got.Blocks[i].ElementID())
		}
		if BlockText(got.Blocks[i]) != BlockText(orig.Blocks[i]) {
			t.Fatalf("block %d text: %q", i, BlockText(got.Blocks[i]))
		}
	}
	p, ok := got.Blocks[3].(Parenthetical)
	if !ok || p.Text != "(annoyed)" {
		t.Fatalf("parenthetical block: %+v", got.Blocks[3])
	}
}

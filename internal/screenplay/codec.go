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
	"strings"
)

// Node type names on the wire.
const (
	nodeDoc           = "doc"
	nodeText          = "text"
	nodeSceneHeading  = "sceneHeading"
	nodeAction        = "action"
	nodeCharacter     = "character"
	nodeDialogue      = "dialogue"
	nodeParenthetical = "parenthetical"
)

// wireNode mirrors the editor's JSON node shape: a type, an optional attrs
// map, child nodes, and (for text leaves) the literal text.
type wireNode struct {
	Type    string         `json:"type"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []wireNode     `json:"content,omitempty"`
	Text    string         `json:"text,omitempty"`
}

// MarshalJSON renders the document in the editor's wire format. Scene
// headings carry their structured attributes plus a synthesized display
// text span; content blocks carry their element id (and, for character and
// dialogue nodes, the character name attribute) and omit the text span
// when the block is empty.
func (d Document) MarshalJSON() ([]byte, error) {
	content := make([]wireNode, 0, len(d.Blocks))
	for _, b := range d.Blocks {
		content = append(content, encodeBlock(b))
	}
	return json.Marshal(wireNode{Type: nodeDoc, Content: content})
}

func encodeBlock(b Block) wireNode {
	switch n := b.(type) {
	case SceneHeading:
		w := wireNode{
			Type: nodeSceneHeading,
			Attrs: map[string]any{
				"element_id":   n.ID,
				"scene_number": nullableInt(n.SceneNumber),
				"int_ext":      nullableString(n.IntExt),
				"location":     nullableString(n.Location),
				"time_of_day":  nullableString(n.TimeOfDay),
			},
		}
		if text := FormatHeading(n.SceneNumber, n.IntExt, n.Location, n.TimeOfDay); text != "" {
			w.Content = []wireNode{{Type: nodeText, Text: text}}
		}
		return w
	case Character:
		return encodeContent(nodeCharacter, n.ID, n.Text, n.CharacterName, true)
	case Dialogue:
		return encodeContent(nodeDialogue, n.ID, n.Text, n.CharacterName, true)
	case Parenthetical:
		return encodeContent(nodeParenthetical, n.ID, n.Text, nil, false)
	case Action:
		return encodeContent(nodeAction, n.ID, n.Text, nil, false)
	default:
		return wireNode{}
	}
}

func encodeContent(typ, id, text string, name *string, withName bool) wireNode {
	attrs := map[string]any{"element_id": id}
	if withName {
		attrs["character_name"] = nullableString(name)
	}
	w := wireNode{Type: typ, Attrs: attrs}
	if text != "" {
		w.Content = []wireNode{{Type: nodeText, Text: text}}
	}
	return w
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullableInt(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}

// UnmarshalJSON parses the editor's wire format back into a document.
// Top-level nodes with an unrecognized type are dropped; attributes that
// are absent or of the wrong type read as null. Text is flattened depth
// first across nested spans.
func (d *Document) UnmarshalJSON(data []byte) error {
	var root wireNode
	if err := json.Unmarshal(data, &root); err != nil {
		return err
	}
	d.Blocks = d.Blocks[:0]
	for _, n := range root.Content {
		if b, ok := decodeBlock(n); ok {
			d.Blocks = append(d.Blocks, b)
		}
	}
	return nil
}

func decodeBlock(n wireNode) (Block, bool) {
	id := attrString(n.Attrs, "element_id")
	sid := ""
	if id != nil {
		sid = *id
	}
	switch n.Type {
	case nodeSceneHeading:
		return SceneHeading{
			ID:          sid,
			SceneNumber: attrInt(n.Attrs, "scene_number"),
			IntExt:      attrString(n.Attrs, "int_ext"),
			Location:    attrString(n.Attrs, "location"),
			TimeOfDay:   attrString(n.Attrs, "time_of_day"),
		}, true
	case nodeAction:
		return Action{ID: sid, Text: flattenText(n)}, true
	case nodeCharacter:
		return Character{ID: sid, Text: flattenText(n), CharacterName: attrString(n.Attrs, "character_name")}, true
	case nodeDialogue:
		return Dialogue{ID: sid, Text: flattenText(n), CharacterName: attrString(n.Attrs, "character_name")}, true
	case nodeParenthetical:
		return Parenthetical{ID: sid, Text: flattenText(n)}, true
	default:
		return nil, false
	}
}

// flattenText concatenates all text leaves under a node in document order.
func flattenText(n wireNode) string {
	if n.Text != "" {
		return n.Text
	}
	if len(n.Content) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, c := range n.Content {
		sb.WriteString(flattenText(c))
	}
	return sb.String()
}

func attrString(attrs map[string]any, key string) *string {
	if attrs == nil {
		return nil
	}
	if v, ok := attrs[key].(string); ok {
		return &v
	}
	return nil
}

// attrInt reads a numeric attribute. JSON numbers decode as float64; the
// editor only ever writes integral scene numbers.
func attrInt(attrs map[string]any, key string) *int {
	if attrs == nil {
		return nil
	}
	switch v := attrs[key].(type) {
	case float64:
		n := int(v)
		return &n
	case int:
		n := v
		return &n
	default:
		return nil
	}
}

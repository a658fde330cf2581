/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package screenplay implements the document side of the editor: the block
// model for screenplay documents, the scene-heading micro-parser, and the
// bidirectional mapping between a document and the flat scene/content
// records the storage layer persists.
//
// A document is an ordered sequence of typed blocks. Every block carries an
// element id assigned by the editor at creation time; it is the only
// correlation key between live document nodes and persisted rows and must
// survive reordering and text edits.
package screenplay

// Block is one top-level node of a screenplay document.
// The concrete types are SceneHeading, Action, Character, Dialogue and
// Parenthetical; consumers select behavior with a type switch.
type Block interface {
	// ElementID returns the editor-assigned element id, or "" when the
	// node was created without one (such nodes are ignored by extraction).
	ElementID() string
}

// SceneHeading starts a new scene and carries its structured fields.
// Display text is synthesized from the fields on encode; it is never a
// source of truth for extraction.
type SceneHeading struct {
	ID          string
	SceneNumber *int
	IntExt      *string
	Location    *string
	TimeOfDay   *string
}

func (h SceneHeading) ElementID() string { return h.ID }

// Action is a description line.
type Action struct {
	ID   string
	Text string
}

func (a Action) ElementID() string { return a.ID }

// Character is a character cue. CharacterName mirrors the editor attribute;
// extraction derives the canonical name from Text, not from this field.
type Character struct {
	ID            string
	Text          string
	CharacterName *string
}

func (c Character) ElementID() string { return c.ID }

// Dialogue is a spoken line. CharacterName mirrors the editor attribute;
// extraction attributes dialogue to the most recent cue in the same scene.
type Dialogue struct {
	ID            string
	Text          string
	CharacterName *string
}

func (d Dialogue) ElementID() string { return d.ID }

// Parenthetical is a delivery note between a cue and its dialogue.
type Parenthetical struct {
	ID   string
	Text string
}

func (p Parenthetical) ElementID() string { return p.ID }

// Document is an ordered sequence of blocks, the in-memory form of the
// editor's content.
type Document struct {
	Blocks []Block
}

// Empty reports whether the document has no blocks at all.
func (d Document) Empty() bool { return len(d.Blocks) == 0 }

// BlockText returns the inline text of a block ("" for scene headings,
// whose display text is derived, not stored).
func BlockText(b Block) string {
	switch n := b.(type) {
	case SceneHeading:
		return ""
	case Action:
		return n.Text
	case Character:
		return n.Text
	case Dialogue:
		return n.Text
	case Parenthetical:
		return n.Text
	default:
		return ""
	}
}

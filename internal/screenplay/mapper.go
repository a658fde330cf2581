/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package screenplay

import (
	"strings"

	"github.com/superficialadam/bl-agentic-rewrite/internal/domain"
)

// SceneExtract is one scene heading lifted out of a document, positioned by
// its dense zero-based order index within the script.
type SceneExtract struct {
	ElementID   string
	SceneNumber *int
	IntExt      *string
	Location    *string
	TimeOfDay   *string
	OrderIndex  int
}

// ContentExtract is one content block lifted out of a document, attributed
// to its owning scene by element id. OrderIndex restarts at zero for every
// scene.
type ContentExtract struct {
	ElementID      string
	Type           string
	Content        string
	CharacterName  *string
	SceneElementID string
	OrderIndex     int
}

// ExtractRecords walks a document in order and flattens it into scene and
// content records.
//
// Blocks without an element id are skipped entirely. Content before the
// first scene heading has no owner and is dropped. Character names are
// derived during the walk: a character cue's name is its own text, trimmed
// and upper-cased; dialogue inherits the most recent cue's name, which
// resets at every scene boundary. Stored character_name attributes on the
// blocks are ignored.
func ExtractRecords(doc Document) ([]SceneExtract, []ContentExtract) {
	var scenes []SceneExtract
	var contents []ContentExtract

	currentScene := ""
	sceneOrder := 0
	contentOrder := 0
	var carriedName *string

	for _, b := range doc.Blocks {
		id := b.ElementID()
		if id == "" {
			continue
		}

		if h, ok := b.(SceneHeading); ok {
			scenes = append(scenes, SceneExtract{
				ElementID:   id,
				SceneNumber: h.SceneNumber,
				IntExt:      h.IntExt,
				Location:    h.Location,
				TimeOfDay:   h.TimeOfDay,
				OrderIndex:  sceneOrder,
			})
			currentScene = id
			sceneOrder++
			contentOrder = 0
			carriedName = nil
			continue
		}

		if currentScene == "" {
			continue
		}

		text := BlockText(b)
		var name *string
		switch b.(type) {
		case Character:
			n := strings.ToUpper(strings.TrimSpace(text))
			name = &n
			carriedName = name
		case Dialogue:
			name = carriedName
		}

		contents = append(contents, ContentExtract{
			ElementID:      id,
			Type:           blockType(b),
			Content:        text,
			CharacterName:  name,
			SceneElementID: currentScene,
			OrderIndex:     contentOrder,
		})
		contentOrder++
	}

	return scenes, contents
}

func blockType(b Block) string {
	switch b.(type) {
	case Action:
		return domain.ContentAction
	case Character:
		return domain.ContentCharacter
	case Dialogue:
		return domain.ContentDialogue
	case Parenthetical:
		return domain.ContentParenthetical
	default:
		return ""
	}
}

// BuildDocument reconstructs an editor document from persisted scenes and
// their nested content rows, both assumed already sorted by order index.
// This is the inverse of ExtractRecords up to display text, which is
// synthesized from the structured heading fields on encode.
func BuildDocument(scenes []domain.SceneWithContent) Document {
	var doc Document
	for _, s := range scenes {
		doc.Blocks = append(doc.Blocks, SceneHeading{
			ID:          s.ElementID,
			SceneNumber: s.SceneNumber,
			IntExt:      s.IntExt,
			Location:    s.Location,
			TimeOfDay:   s.TimeOfDay,
		})
		for _, c := range s.Content {
			doc.Blocks = append(doc.Blocks, contentBlock(c))
		}
	}
	return doc
}

func contentBlock(c domain.SceneContent) Block {
	switch c.Type {
	case domain.ContentCharacter:
		return Character{ID: c.ElementID, Text: c.Content, CharacterName: c.CharacterName}
	case domain.ContentDialogue:
		return Dialogue{ID: c.ElementID, Text: c.Content, CharacterName: c.CharacterName}
	case domain.ContentParenthetical:
		return Parenthetical{ID: c.ElementID, Text: c.Content}
	default:
		return Action{ID: c.ElementID, Text: c.Content}
	}
}

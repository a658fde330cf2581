/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package screenplay

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ParseText parses a plain-text screenplay into a document, assigning a
// fresh element id to every block.
// Supported syntax (minimal):
// - Scene headings: "201. INT. KITCHEN - DAY" style lines (number, marker,
//   location, optional time of day).
// - Character cues: a short all-caps line, e.g. "MARY". The following
//   non-blank lines are its dialogue.
// - Parentheticals: a line wrapped in parentheses between a cue and its
//   dialogue, e.g. "(whispering)".
// - Everything else is action. Blank lines end a dialogue run.
func ParseText(input string) Document {
	var doc Document

	reCue := regexp.MustCompile(`^[A-Z0-9][A-Z0-9 .'\-&]{0,39}$`)
	inDialogue := false

	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			inDialogue = false
			continue
		}

		if headingRE.MatchString(line) {
			h := ParseHeading(line)
			doc.Blocks = append(doc.Blocks, SceneHeading{
				ID:          uuid.NewString(),
				SceneNumber: h.SceneNumber,
				IntExt:      h.IntExt,
				Location:    h.Location,
				TimeOfDay:   h.TimeOfDay,
			})
			inDialogue = false
			continue
		}

		if strings.HasPrefix(line, "(") && strings.HasSuffix(line, ")") && inDialogue {
			doc.Blocks = append(doc.Blocks, Parenthetical{ID: uuid.NewString(), Text: line})
			continue
		}

		if !inDialogue && reCue.MatchString(line) && line == strings.ToUpper(line) && strings.ContainsAny(line, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
			doc.Blocks = append(doc.Blocks, Character{ID: uuid.NewString(), Text: line})
			inDialogue = true
			continue
		}

		if inDialogue {
			doc.Blocks = append(doc.Blocks, Dialogue{ID: uuid.NewString(), Text: line})
			continue
		}

		doc.Blocks = append(doc.Blocks, Action{ID: uuid.NewString(), Text: line})
	}

	return doc
}

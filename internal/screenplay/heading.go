/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package screenplay

import (
	"regexp"
	"strconv"
	"strings"
)

// ParsedHeading holds the structured fields extracted from a scene heading
// line like "201. INT. KITCHEN - DAY".
type ParsedHeading struct {
	SceneNumber *int
	IntExt      *string
	Location    *string
	TimeOfDay   *string
}

// Pattern: number, dot, marker, dot, location, optional " - TIME" suffix.
// The location capture is non-greedy so the time-of-day split happens at the
// first delimiter that still yields a valid trailing match.
var headingRE = regexp.MustCompile(`^(?i)(\d+)\.\s+(INT/EXT|INT|EXT)\.\s+(.+?)(?:\s*-\s*(.+))?$`)

// ParseHeading extracts structured fields from a scene heading line.
// It never fails: unparseable input degrades to a location-only result with
// the trimmed original text as the location (nil for empty input). The
// marker is upper-cased; location and time-of-day keep their casing.
func ParseHeading(text string) ParsedHeading {
	trimmed := strings.TrimSpace(text)
	m := headingRE.FindStringSubmatch(trimmed)
	if m == nil {
		var loc *string
		if trimmed != "" {
			loc = &trimmed
		}
		return ParsedHeading{Location: loc}
	}

	num, err := strconv.Atoi(m[1])
	var numPtr *int
	if err == nil {
		numPtr = &num
	}
	intExt := strings.ToUpper(m[2])
	location := strings.TrimSpace(m[3])
	h := ParsedHeading{
		SceneNumber: numPtr,
		IntExt:      &intExt,
		Location:    &location,
	}
	if m[4] != "" {
		tod := strings.TrimSpace(m[4])
		h.TimeOfDay = &tod
	}
	return h
}

// FormatHeading synthesizes the display text for a scene heading from its
// structured fields: "<number>. <marker>. <location> - <time>", with absent
// parts omitted.
func FormatHeading(sceneNumber *int, intExt, location, timeOfDay *string) string {
	var parts []string
	if sceneNumber != nil {
		parts = append(parts, strconv.Itoa(*sceneNumber)+".")
	}
	if intExt != nil && *intExt != "" {
		parts = append(parts, *intExt+".")
	}
	if location != nil && *location != "" {
		parts = append(parts, *location)
	}
	s := strings.Join(parts, " ")
	if timeOfDay != nil && *timeOfDay != "" {
		return s + " - " + *timeOfDay
	}
	return s
}

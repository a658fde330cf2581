/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package screenplay

import "testing"

func intp(n int) *int       { return &n }
func strp(s string) *string { return &s }

func eqInt(t *testing.T, name string, got, want *int) {
	t.Helper()
	if (got == nil) != (want == nil) {
		t.Fatalf("%s: got %v, want %v", name, got, want)
	}
	if got != nil && *got != *want {
		t.Fatalf("%s: got %d, want %d", name, *got, *want)
	}
}

func eqStr(t *testing.T, name string, got, want *string) {
	t.Helper()
	if (got == nil) != (want == nil) {
		t.Fatalf("%s: got %v, want %v", name, got, want)
	}
	if got != nil && *got != *want {
		t.Fatalf("%s: got %q, want %q", name, *got, *want)
	}
}

func TestParseHeading(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want ParsedHeading
	}{
		{
			name: "standard INT heading with time of day",
			in:   "201. INT. KITCHEN - DAY",
			want: ParsedHeading{intp(201), strp("INT"), strp("KITCHEN"), strp("DAY")},
		},
		{
			name: "EXT heading with time of day",
			in:   "5. EXT. PARK - NIGHT",
			want: ParsedHeading{intp(5), strp("EXT"), strp("PARK"), strp("NIGHT")},
		},
		{
			name: "INT/EXT heading",
			in:   "12. INT/EXT. CAR - DAWN",
			want: ParsedHeading{intp(12), strp("INT/EXT"), strp("CAR"), strp("DAWN")},
		},
		{
			name: "heading without time of day",
			in:   "99. INT. HALLWAY",
			want: ParsedHeading{intp(99), strp("INT"), strp("HALLWAY"), nil},
		},
		{
			name: "multi-word location",
			in:   "201. INT. TOMMY & ANNIKAS HUS - DAG",
			want: ParsedHeading{intp(201), strp("INT"), strp("TOMMY & ANNIKAS HUS"), strp("DAG")},
		},
		{
			name: "lowercase input normalizes marker only",
			in:   "3. int. office - evening",
			want: ParsedHeading{intp(3), strp("INT"), strp("office"), strp("evening")},
		},
		{
			name: "unparseable text falls back to location",
			in:   "Just some random text",
			want: ParsedHeading{nil, nil, strp("Just some random text"), nil},
		},
		{
			name: "empty string yields all nulls",
			in:   "",
			want: ParsedHeading{nil, nil, nil, nil},
		},
		{
			name: "surrounding whitespace is trimmed",
			in:   "  201. INT. KITCHEN - DAY  ",
			want: ParsedHeading{intp(201), strp("INT"), strp("KITCHEN"), strp("DAY")},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseHeading(tc.in)
			eqInt(t, "scene_number", got.SceneNumber, tc.want.SceneNumber)
			eqStr(t, "int_ext", got.IntExt, tc.want.IntExt)
			eqStr(t, "location", got.Location, tc.want.Location)
			eqStr(t, "time_of_day", got.TimeOfDay, tc.want.TimeOfDay)
		})
	}
}

func TestFormatHeading(t *testing.T) {
	if got := FormatHeading(intp(201), strp("INT"), strp("KITCHEN"), strp("DAY")); got != "201. INT. KITCHEN - DAY" {
		t.Fatalf("full heading: %q", got)
	}
	if got := FormatHeading(intp(1), strp("EXT"), strp("PARK"), nil); got != "1. EXT. PARK" {
		t.Fatalf("heading without time: %q", got)
	}
	if got := FormatHeading(nil, nil, strp("Just some random text"), nil); got != "Just some random text" {
		t.Fatalf("location-only heading: %q", got)
	}
	if got := FormatHeading(nil, nil, nil, nil); got != "" {
		t.Fatalf("empty heading: %q", got)
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, in := range []string{
		"201. INT. KITCHEN - DAY",
		"5. EXT. PARK - NIGHT",
		"12. INT/EXT. CAR - DAWN",
		"99. INT. HALLWAY",
	} {
		h := ParseHeading(in)
		if got := FormatHeading(h.SceneNumber, h.IntExt, h.Location, h.TimeOfDay); got != in {
			t.Fatalf("round trip %q: got %q", in, got)
		}
	}
}

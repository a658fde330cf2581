/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package api

import (
	_ "embed"

	"github.com/xeipuuv/gojsonschema"
)

// Sync payloads above this size are rejected outright.
const maxSyncBody = 8 << 20

//go:embed document.schema.json
var syncSchemaJSON []byte

var syncSchema = mustCompileSchema(syncSchemaJSON)

func mustCompileSchema(data []byte) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		panic("api: invalid embedded schema: " + err.Error())
	}
	return s
}

// validateSyncRequest checks a sync body against the document schema before
// any decoding. On failure it returns the first validation message.
func validateSyncRequest(body []byte) (string, bool) {
	res, err := syncSchema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return "invalid JSON body", false
	}
	if !res.Valid() {
		errs := res.Errors()
		if len(errs) > 0 {
			return errs[0].String(), false
		}
		return "invalid sync request", false
	}
	return "", true
}

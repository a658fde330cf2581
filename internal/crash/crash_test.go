/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crash

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRecoverWritesReport(t *testing.T) {
	dir := t.TempDir()
	exited := -1
	prev := exitFn
	exitFn = func(code int) { exited = code }
	defer func() { exitFn = prev }()

	func() {
		defer Recover(dir)
		panic("boom")
	}()

	if exited != 2 {
		t.Fatalf("exit code: %d", exited)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || !strings.HasPrefix(entries[0].Name(), "crash-") {
		t.Fatalf("report file missing: %v", entries)
	}
	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(data), "panic: boom") {
		t.Fatalf("report content: %q", string(data))
	}
}

func TestRecoverNoPanicIsNoop(t *testing.T) {
	prev := exitFn
	exitFn = func(int) { t.Fatalf("exit called without panic") }
	defer func() { exitFn = prev }()

	func() {
		defer Recover(t.TempDir())
	}()
}

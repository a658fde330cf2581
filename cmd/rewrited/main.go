/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// rewrited is the backend daemon: it owns the database and serves the HTTP
// API consumed by the editor and the rewrite CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/superficialadam/bl-agentic-rewrite/internal/api"
	"github.com/superficialadam/bl-agentic-rewrite/internal/config"
	"github.com/superficialadam/bl-agentic-rewrite/internal/crash"
	applog "github.com/superficialadam/bl-agentic-rewrite/internal/log"
	"github.com/superficialadam/bl-agentic-rewrite/internal/storage"
	"github.com/superficialadam/bl-agentic-rewrite/internal/version"
)

func main() {
	// A local .env is convenient in development; absence is not an error.
	_ = godotenv.Load()

	args := os.Args
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println(version.String())
			return
		}
	}

	cfg, _, err := config.Load()
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	l := applog.WithComponent("rewrited")

	var reportDir string
	if path, err := config.ConfigPath(); err == nil {
		reportDir = filepath.Join(filepath.Dir(path), "crash")
	}
	defer crash.Recover(reportDir)

	store, err := storage.Open(cfg.Server.Database)
	if err != nil {
		l.Error("storage open failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	defer store.Close()

	srv := api.NewServer(store, cfg.Server.AuthSecret)
	l.Info("starting", slog.String("addr", cfg.Server.Addr), slog.String("version", version.Version))
	if err := srv.ListenAndServe(cfg.Server.Addr); err != nil {
		l.Error("server stopped", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}

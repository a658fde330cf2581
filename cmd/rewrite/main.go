/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// rewrite is the command line client for a rewrited instance: project
// management, plain-text script import and sync, and PDF export.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/superficialadam/bl-agentic-rewrite/internal/api"
	"github.com/superficialadam/bl-agentic-rewrite/internal/config"
	"github.com/superficialadam/bl-agentic-rewrite/internal/crash"
	"github.com/superficialadam/bl-agentic-rewrite/internal/export"
	applog "github.com/superficialadam/bl-agentic-rewrite/internal/log"
	"github.com/superficialadam/bl-agentic-rewrite/internal/screenplay"
	"github.com/superficialadam/bl-agentic-rewrite/internal/version"
)

func usage() {
	fmt.Println("rewrite — screenwriting backend CLI")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  rewrite version|-v|--version              Show version")
	fmt.Println("  rewrite login <secret>                     Obtain an API token and store it in the keyring")
	fmt.Println("  rewrite projects                           List projects")
	fmt.Println("  rewrite create <name>                      Create a project with its default scaffold")
	fmt.Println("  rewrite import <script-id> <file.txt>      Parse a plain-text screenplay and sync it")
	fmt.Println("  rewrite export <script-id> <out.pdf>       Export a script as a screenplay PDF")
}

func main() {
	_ = godotenv.Load()
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	defer crash.Recover("")

	cfg, token, err := config.Load()
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	client := api.NewClient(cfg.Client.BaseURL, token)
	ctx := context.Background()

	args := os.Args
	if len(args) < 2 {
		usage()
		return
	}

	switch args[1] {
	case "version", "--version", "-v":
		fmt.Println(version.String())

	case "login":
		if len(args) < 3 {
			fmt.Println("login requires <secret>")
			os.Exit(2)
		}
		tok, err := client.FetchToken(ctx, args[2])
		if err != nil {
			fail(l, "login", err)
		}
		if err := config.StoreToken(tok); err != nil {
			fail(l, "store token", err)
		}
		fmt.Println("Token stored in the OS keyring.")

	case "projects":
		projects, err := client.ListProjects(ctx)
		if err != nil {
			fail(l, "list projects", err)
		}
		if len(projects) == 0 {
			fmt.Println("No projects.")
			return
		}
		for _, p := range projects {
			fmt.Printf("%-36s %-24s %s\n", p.ID, p.Slug, p.Name)
		}

	case "create":
		if len(args) < 3 {
			fmt.Println("create requires <name>")
			os.Exit(2)
		}
		p, err := client.CreateProject(ctx, args[2])
		if err != nil {
			fail(l, "create project", err)
		}
		fmt.Printf("Created project %s (slug %s)\n", p.Name, p.Slug)
		if p.CurrentScriptID != nil {
			fmt.Println("Script:", *p.CurrentScriptID)
		}
		if p.CurrentTimelineID != nil {
			fmt.Println("Timeline:", *p.CurrentTimelineID)
		}

	case "import":
		if len(args) < 4 {
			fmt.Println("import requires <script-id> and <file.txt>")
			os.Exit(2)
		}
		scriptID, path := args[2], args[3]
		data, err := os.ReadFile(path)
		if err != nil {
			fail(l, "read script file", err)
		}
		doc := screenplay.ParseText(string(data))
		if doc.Empty() {
			fmt.Println("Error: no screenplay content found in", path)
			os.Exit(1)
		}
		res, err := client.Sync(ctx, scriptID, doc)
		if err != nil {
			fail(l, "sync", err)
		}
		l.Info("import synced", slog.String("script_id", scriptID))
		fmt.Printf("Synced: %d scenes, %d content blocks, %d orphans removed\n",
			res.ScenesUpserted, res.ContentUpserted, res.OrphansDeleted)

	case "export":
		if len(args) < 4 {
			fmt.Println("export requires <script-id> and <out.pdf>")
			os.Exit(2)
		}
		scriptID, out := args[2], args[3]
		sc, err := client.Script(ctx, scriptID)
		if err != nil {
			fail(l, "load script", err)
		}
		err = export.WriteScriptPDF(sc.Script, sc.Scenes, out, export.PDFOptions{})
		if err != nil {
			fail(l, "export pdf", err)
		}
		fmt.Println("Wrote", out)

	default:
		usage()
		os.Exit(2)
	}
}

func fail(l *slog.Logger, op string, err error) {
	l.Error(op+" failed", slog.Any("err", err))
	fmt.Println("Error:", err)
	os.Exit(1)
}

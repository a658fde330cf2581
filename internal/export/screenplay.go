/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders persisted scripts to PDF in standard screenplay
// layout: Courier 12pt on US Letter, scene headings flush left, character
// cues and dialogue indented to their customary columns.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/superficialadam/bl-agentic-rewrite/internal/domain"
	"github.com/superficialadam/bl-agentic-rewrite/internal/screenplay"
)

// Layout constants, in points. Standard screenplay margins: 1.5in left,
// 1in right/top/bottom; cues at 3.7in, dialogue at 2.5in from page edge.
const (
	pageWidth    = 612.0
	pageHeight   = 792.0
	marginLeft   = 108.0
	marginRight  = 72.0
	marginTop    = 72.0
	marginBottom = 72.0

	indentCharacter     = 266.0
	indentDialogue      = 180.0
	indentParenthetical = 223.0

	dialogueWidth      = 252.0
	parentheticalWidth = 180.0

	fontSize   = 12.0
	lineHeight = fontSize * 1.15
)

// PDFOptions controls screenplay PDF export.
type PDFOptions struct {
	Title  string
	Author string
}

// WriteScriptPDF renders the script's scenes to a PDF at outPath, creating
// parent directories as needed.
func WriteScriptPDF(script domain.Script, scenes []domain.SceneWithContent, outPath string, opt PDFOptions) error {
	title := opt.Title
	if title == "" {
		title = script.Title
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: pageWidth, Ht: pageHeight},
	})
	pdf.SetTitle(title, false)
	if opt.Author != "" {
		pdf.SetAuthor(opt.Author, false)
	}
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.SetFont("Courier", "", fontSize)

	pdf.AddPage()
	writeTitlePage(pdf, title)

	for _, sc := range scenes {
		pdf.AddPage()
		heading := screenplay.FormatHeading(sc.SceneNumber, sc.IntExt, sc.Location, sc.TimeOfDay)
		pdf.SetFont("Courier", "B", fontSize)
		writeLines(pdf, marginLeft, pageWidth-marginLeft-marginRight, strings.ToUpper(heading))
		pdf.SetFont("Courier", "", fontSize)
		pdf.Ln(lineHeight)

		for _, c := range sc.Content {
			switch c.Type {
			case domain.ContentCharacter:
				writeLines(pdf, indentCharacter, pageWidth-indentCharacter-marginRight, strings.ToUpper(c.Content))
			case domain.ContentDialogue:
				writeLines(pdf, indentDialogue, dialogueWidth, c.Content)
				pdf.Ln(lineHeight)
			case domain.ContentParenthetical:
				writeLines(pdf, indentParenthetical, parentheticalWidth, c.Content)
			default:
				writeLines(pdf, marginLeft, pageWidth-marginLeft-marginRight, c.Content)
				pdf.Ln(lineHeight)
			}
		}
	}

	dir := filepath.Dir(outPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func writeTitlePage(pdf *gofpdf.Fpdf, title string) {
	pdf.SetY(pageHeight / 3)
	pdf.SetFont("Courier", "B", fontSize+2)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, lineHeight, strings.ToUpper(title), "", 1, "C", false, 0, "")
	pdf.SetFont("Courier", "", fontSize)
}

// writeLines emits text at the given left offset, wrapped to width.
func writeLines(pdf *gofpdf.Fpdf, left, width float64, text string) {
	if strings.TrimSpace(text) == "" {
		pdf.Ln(lineHeight)
		return
	}
	pdf.SetX(left)
	pdf.MultiCell(width, lineHeight, text, "", "L", false)
}

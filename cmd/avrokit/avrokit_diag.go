// Copyright (c) 2024 John Millikin <john@john-millikin.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"go.avrokit.dev/avrokit"
	"go.avrokit.dev/avrokit/syntax"
)

// diagPrinter writes diagnostics as "path:line:col: label: Wnnnn: message".
// Labels are colored when the writer is a terminal.
type diagPrinter struct {
	w          io.Writer
	errorLabel string
	warnLabel  string
	pathStyle  lipgloss.Style
}

func newDiagPrinter(w io.Writer) *diagPrinter {
	r := lipgloss.NewRenderer(w)
	return &diagPrinter{
		w:          w,
		errorLabel: r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true).Render("error"),
		warnLabel:  r.NewStyle().Foreground(lipgloss.Color("11")).Bold(true).Render("warning"),
		pathStyle:  r.NewStyle().Bold(true),
	}
}

func (p *diagPrinter) location(path string, src []byte, span syntax.Span) string {
	line, col := syntax.Position(src, span.Start())
	return p.pathStyle.Render(fmt.Sprintf("%s:%d:%d", path, line, col))
}

func (p *diagPrinter) warning(path string, src []byte, w avrokit.Diagnostic) {
	fmt.Fprintf(p.w, "%s: %s: W%d: %s\n", p.location(path, src, w.Span()), p.warnLabel, w.Code(), w.Message())
}

func (p *diagPrinter) diagnostic(path string, src []byte, d avrokit.Diagnostic) {
	fmt.Fprintf(p.w, "%s: %s: E%d: %s\n", p.location(path, src, d.Span()), p.errorLabel, d.Code(), d.Message())
}

// error prints err, expanding the errors that carry a source location.
func (p *diagPrinter) error(path string, src []byte, err error) {
	switch err := err.(type) {
	case *syntax.Error:
		p.diagnostic(path, src, err)
	case *avrokit.CompileError:
		for _, e := range err.Errors {
			p.diagnostic(path, src, e)
		}
	default:
		fmt.Fprintf(p.w, "%s: %s: %v\n", p.pathStyle.Render(path), p.errorLabel, err)
	}
}

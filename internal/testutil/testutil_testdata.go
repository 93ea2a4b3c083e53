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

package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"testing"

	"go.avrokit.dev/avrokit/syntax"
)

// TestdataFS returns the repository's top-level testdata directory.
func TestdataFS() (fs.FS, error) {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return nil, fmt.Errorf("testutil: can't locate source file")
	}
	root := filepath.Join(filepath.Dir(file), "..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}
	return os.DirFS(root), nil
}

type Diagnostic struct {
	code    uint32
	message string
	pattern *regexp.Regexp
}

func (d *Diagnostic) Code() uint32 {
	return d.code
}

func (d *Diagnostic) Message() string {
	return d.message
}

func (d *Diagnostic) MessagePattern() *regexp.Regexp {
	return d.pattern
}

// LoadDiagnostics reads a JSON object mapping diagnostic names to their
// code and expected message (or message pattern). Keys starting with '_'
// reserve a code without naming it.
func LoadDiagnostics(testdata fs.FS, path string) (map[string]*Diagnostic, error) {
	type rawDiagnostic struct {
		Code    uint32 `json:"code"`
		Message string `json:"message"`
		Pattern string `json:"message_pattern"`
	}

	jsonData, err := fs.ReadFile(testdata, path)
	if err != nil {
		return nil, err
	}

	var raws map[string]rawDiagnostic
	decoder := json.NewDecoder(bytes.NewReader(jsonData))
	decoder.UseNumber()
	if err := decoder.Decode(&raws); err != nil {
		return nil, err
	}

	out := make(map[string]*Diagnostic, len(raws))
	codes := make(map[uint32]struct{}, len(raws))
	for key, raw := range raws {
		if raw.Code == 0 {
			if key[0] == '_' {
				continue
			}
			return nil, fmt.Errorf("%s: diagnostic %q has no code", path, key)
		}
		if _, conflict := codes[raw.Code]; conflict {
			return nil, fmt.Errorf("%s: duplicate diagnostic code %d", path, raw.Code)
		}
		codes[raw.Code] = struct{}{}
		if key[0] == '_' {
			continue
		}

		var pattern *regexp.Regexp
		if raw.Pattern != "" {
			pattern, err = regexp.Compile("(?i)" + raw.Pattern)
			if err != nil {
				return nil, err
			}
		}
		out[key] = &Diagnostic{
			code:    raw.Code,
			message: raw.Message,
			pattern: pattern,
		}
	}
	return out, nil
}

// ExpectDiagnostic checks a reported code and message against want.
func ExpectDiagnostic(t *testing.T, want *Diagnostic, code uint32, message string) {
	t.Helper()
	ExpectEq(t, want.Code(), code)
	if pattern := want.MessagePattern(); pattern != nil {
		ExpectMatch(t, pattern, message)
	} else if want.Message() != "" {
		ExpectEq(t, want.Message(), message)
	}
}

// SpanOrDie converts a decoded {"start": N, "len": N} object to a span.
func SpanOrDie(t *testing.T, value any) syntax.Span {
	t.Helper()
	obj, ok := value.(map[string]any)
	if !ok {
		t.Fatalf("expected span object, got %#v", value)
	}
	field := func(name string) uint32 {
		num, ok := obj[name].(json.Number)
		if !ok {
			t.Fatalf("span field %q: expected number, got %#v", name, obj[name])
		}
		n, err := num.Int64()
		if err != nil || n < 0 {
			t.Fatalf("span field %q: invalid value %v", name, num)
		}
		return uint32(n)
	}
	return syntax.NewSpan(field("start"), field("len"))
}

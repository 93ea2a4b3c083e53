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

package syntax_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"testing"

	"go.avrokit.dev/avrokit/encoding/avsc"
	"go.avrokit.dev/avrokit/internal/testutil"
	"go.avrokit.dev/avrokit/syntax"
)

func specTest(t *testing.T, testName string) {
	t.Parallel()

	srcPath := fmt.Sprintf("syntax/%s/%s.avdl", testName, testName)
	src, err := fs.ReadFile(testdata, srcPath)
	testutil.AssertNoError(t, err)

	expectOK := fmt.Sprintf("syntax/%s/expect_ok.json", testName)
	expectErr := fmt.Sprintf("syntax/%s/expect_err.json", testName)

	if _, err := fs.Stat(testdata, expectErr); err == nil {
		testExpectErr(t, src, expectErr)
	} else {
		testExpectOK(t, src, expectOK)
	}
}

type protocolJSON struct {
	Name      string            `json:"name,omitempty"`
	Namespace string            `json:"namespace,omitempty"`
	Doc       string            `json:"doc,omitempty"`
	Schemas   []json.RawMessage `json:"schemas"`
	Warnings  []uint32          `json:"warnings,omitempty"`
}

func dumpProtocol(t *testing.T, result *syntax.Result[*syntax.Protocol]) []byte {
	t.Helper()
	protocol := result.Value
	dump := protocolJSON{
		Name:      protocol.Name,
		Namespace: protocol.Namespace,
		Doc:       protocol.Doc,
	}
	for _, s := range protocol.Schemas {
		doc, err := avsc.Marshal(s)
		testutil.AssertNoError(t, err)
		dump.Schemas = append(dump.Schemas, doc)
	}
	for _, w := range result.Warnings {
		dump.Warnings = append(dump.Warnings, w.Code())
	}
	out, err := json.Marshal(dump)
	testutil.AssertNoError(t, err)
	return out
}

func testExpectOK(t *testing.T, src []byte, expectPath string) {
	expectJSON, err := fs.ReadFile(testdata, expectPath)
	testutil.AssertNoError(t, err)

	result, err := syntax.Parse(src)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, 0, len(bytes.TrimSpace(result.Rest)))

	testutil.ExpectJSONEq(t, expectJSON, dumpProtocol(t, result))
}

func testExpectErr(t *testing.T, src []byte, expectPath string) {
	expectJSON, err := fs.ReadFile(testdata, expectPath)
	testutil.AssertNoError(t, err)

	test := make(map[string]any)
	decoder := json.NewDecoder(bytes.NewReader(expectJSON))
	decoder.UseNumber()
	testutil.AssertNoError(t, decoder.Decode(&test))

	errorName := test["error"].(string)
	expectErr, ok := syntaxErrors[errorName]
	if !ok {
		t.Fatalf("unknown parse error name %q", errorName)
	}

	_, err = syntax.Parse(src)
	testutil.AssertError(t, err)

	parseErr, ok := err.(*syntax.Error)
	if !ok {
		t.Fatalf("expected *syntax.Error, got %T: %v", err, err)
	}
	testutil.ExpectDiagnostic(t, expectErr, parseErr.Code(), parseErr.Message())

	if rawSpan, ok := test["error_span"]; ok {
		expectSpan := testutil.SpanOrDie(t, rawSpan)
		testutil.ExpectEq(t, expectSpan, parseErr.Span())
	}
}

func TestSyntax(t *testing.T) {
	t.Parallel()

	testDirs, err := fs.ReadDir(testdata, "syntax")
	testutil.AssertNoError(t, err)

	for _, testDir := range testDirs {
		if testDir.IsDir() {
			testName := testDir.Name()
			t.Run(testName, func(t *testing.T) {
				specTest(t, testName)
			})
		}
	}
}

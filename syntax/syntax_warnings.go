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

package syntax

import (
	"fmt"

	"go.avrokit.dev/avrokit/schema"
)

// Warning reports input that parsed successfully but was partly ignored.
type Warning struct {
	code    uint32
	message string
	span    Span
}

func (w *Warning) String() string {
	return fmt.Sprintf("W%d: %s", w.code, w.message)
}

func (w *Warning) Code() uint32 {
	return w.code
}

func (w *Warning) Message() string {
	return w.message
}

func (w *Warning) Span() Span {
	return w.span
}

func warnEnumDefaultIgnored(enumName, symbol string, span Span) *Warning {
	return &Warning{
		code: 4000,
		message: fmt.Sprintf(
			"Default symbol %s of enum %s is not carried into the schema",
			symbol, enumName,
		),
		span: span,
	}
}

func warnFixedOrderIgnored(fixedName string, span Span) *Warning {
	return &Warning{
		code:    4001,
		message: fmt.Sprintf("Annotation '@order' on fixed %s has no effect", fixedName),
		span:    span,
	}
}

func warnLogicalTypeBase(logical schema.Builtin, written string, span Span) *Warning {
	want := "fixed"
	if base, ok := logical.Base(); ok {
		want = base.String()
	}
	return &Warning{
		code: 4002,
		message: fmt.Sprintf(
			"Logical type %q annotates %s, expected %s; the written type is replaced",
			logical, written, want,
		),
		span: span,
	}
}

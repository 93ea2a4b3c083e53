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

package compiler

import (
	"fmt"

	"go.avrokit.dev/avrokit/syntax"
)

type Error struct {
	code    uint32
	message string
	span    syntax.Span
}

var _ error = (*Error)(nil)

func (err *Error) Error() string {
	return fmt.Sprintf("E%d: %s", err.code, err.message)
}

func (err *Error) Code() uint32 {
	return err.code
}

func (err *Error) Message() string {
	return err.message
}

func (err *Error) Span() syntax.Span {
	return err.span
}

func errDuplicateType(fullname string, span syntax.Span) *Error {
	return &Error{
		code:    3100,
		message: fmt.Sprintf("Named type '%s' is declared more than once", fullname),
		span:    span,
	}
}

func errAliasConflict(alias, owner, other string, span syntax.Span) *Error {
	return &Error{
		code: 3101,
		message: fmt.Sprintf(
			"Alias '%s' of '%s' is already claimed by '%s'",
			alias, owner, other,
		),
		span: span,
	}
}

func errDependencyConflict(fullname string, span syntax.Span) *Error {
	return &Error{
		code: 3102,
		message: fmt.Sprintf(
			"Named type '%s' has conflicting definitions in dependencies",
			fullname,
		),
		span: span,
	}
}

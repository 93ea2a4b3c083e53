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
	"math"
	"unicode/utf8"

	"go.avrokit.dev/avrokit/schema"
)

type ErrorKind uint8

const (
	// The input does not match the grammar.
	ErrorSyntax ErrorKind = iota

	// The input is well-formed but a value is out of range or a name,
	// symbol or key is invalid or duplicated.
	ErrorValidation

	// The input uses a feature that cannot be converted.
	ErrorUnsupported
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorSyntax:
		return "syntax"
	case ErrorValidation:
		return "validation"
	case ErrorUnsupported:
		return "unsupported"
	default:
		return fmt.Sprintf("ErrorKind(%d)", uint8(k))
	}
}

type Error struct {
	code    uint32
	message string
	span    Span
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

func (err *Error) Span() Span {
	return err.span
}

func (err *Error) Kind() ErrorKind {
	switch {
	case err.code >= 5000:
		return ErrorUnsupported
	case err.code >= 3000:
		return ErrorValidation
	}
	return ErrorSyntax
}

func clampLen(n int) uint32 {
	if uint64(n) < math.MaxUint32 {
		return uint32(n)
	}
	return math.MaxUint32
}

func errSourceTooLong(srcLen int) error {
	return &Error{
		code: 1000,
		message: fmt.Sprintf(
			"Source file size (%d bytes) exceeds maximum (%d bytes)",
			srcLen, maxSrcLen,
		),
		span: Span{0, clampLen(srcLen)},
	}
}

func errInvalidUtf8(src []byte) error {
	var off uint32
	for len(src) > 0 {
		r, size := utf8.DecodeRune(src)
		if r == utf8.RuneError {
			break
		}
		off += uint32(size)
		src = src[size:]
	}
	return &Error{
		code:    1001,
		message: "Source file contains invalid UTF-8",
		span:    Span{off, 1},
	}
}

func errUnexpectedCharacter(start uint32, r rune) error {
	return &Error{
		code:    1002,
		message: fmt.Sprintf("Unexpected character '%s' (U+%04X)", string(r), r),
		span:    Span{start, uint32(utf8.RuneLen(r))},
	}
}

func errForbiddenControlCharacter(start uint32, c byte) error {
	return &Error{
		code:    1003,
		message: fmt.Sprintf("Forbidden control character U+%04X", c),
		span:    Span{start, 1},
	}
}

func errTokenTooLong(start uint32, tokenLen int) error {
	return &Error{
		code: 1004,
		message: fmt.Sprintf(
			"Token size (%d bytes) exceeds maximum (%d bytes)",
			tokenLen, maxTokenLen,
		),
		span: Span{start, clampLen(tokenLen)},
	}
}

func errNumLitInvalid(start uint32, token []byte) error {
	return &Error{
		code:    1005,
		message: fmt.Sprintf("Invalid number literal %q", token),
		span:    Span{start, clampLen(len(token))},
	}
}

func errTextLitUnterminated(start, tokenLen uint32) error {
	return &Error{
		code:    1006,
		message: "Unterminated text literal",
		span:    Span{start, tokenLen},
	}
}

func errTextLitContainsNewline(start, newlineLen uint32) error {
	return &Error{
		code:    1007,
		message: "Text literal contains unescaped newline",
		span:    Span{start, newlineLen},
	}
}

func errCommentUnterminated(start, tokenLen uint32) error {
	return &Error{
		code:    1008,
		message: "Unterminated block comment",
		span:    Span{start, tokenLen},
	}
}

func errTextLitInvalid(start uint32, token string) error {
	return &Error{
		code:    1009,
		message: fmt.Sprintf("Invalid escape sequence in text literal %s", token),
		span:    Span{start, clampLen(len(token))},
	}
}

func errExpectedSigil(
	wantKind TokenKind,
	gotKind TokenKind,
	gotToken string,
	span Span,
) error {
	var code uint32
	var want string
	switch wantKind {
	case T_AT:
		code = 2000
		want = "@"
	case T_COLON:
		code = 2001
		want = ":"
	case T_COMMA:
		code = 2002
		want = ","
	case T_SEMICOLON:
		code = 2003
		want = ";"
	case T_EQ:
		code = 2004
		want = "="
	case T_LT:
		code = 2005
		want = "<"
	case T_GT:
		code = 2006
		want = ">"
	case T_OPEN_CURL:
		code = 2007
		want = "{"
	case T_CLOSE_CURL:
		code = 2008
		want = "}"
	case T_OPEN_PAREN:
		code = 2009
		want = "("
	case T_CLOSE_PAREN:
		code = 2010
		want = ")"
	case T_OPEN_SQUARE:
		code = 2011
		want = "["
	case T_CLOSE_SQUARE:
		code = 2012
		want = "]"
	default:
		panic("unreachable")
	}
	return &Error{
		code:    code,
		message: fmt.Sprintf("Expected sigil '%s', got (%s %q)", want, gotKind, gotToken),
		span:    span,
	}
}

func errExpectedIdent(gotKind TokenKind, gotToken string, span Span) error {
	return &Error{
		code:    2020,
		message: fmt.Sprintf("Expected identifier, got (%s %q)", gotKind, gotToken),
		span:    span,
	}
}

func errExpectedTextLit(gotKind TokenKind, gotToken string, span Span) error {
	return &Error{
		code:    2021,
		message: fmt.Sprintf("Expected text literal, got (%s %q)", gotKind, gotToken),
		span:    span,
	}
}

func errExpectedNumLit(gotKind TokenKind, gotToken string, span Span) error {
	return &Error{
		code:    2022,
		message: fmt.Sprintf("Expected number literal, got (%s %q)", gotKind, gotToken),
		span:    span,
	}
}

func errExpectedKeyword(
	keyword string,
	gotKind TokenKind,
	gotToken string,
	span Span,
) error {
	return &Error{
		code: 2023,
		message: fmt.Sprintf(
			"Expected keyword '%s', got (%s %q)",
			keyword, gotKind, gotToken,
		),
		span: span,
	}
}

func errExpectedType(gotKind TokenKind, gotToken string, span Span) error {
	return &Error{
		code:    2024,
		message: fmt.Sprintf("Expected type, got (%s %q)", gotKind, gotToken),
		span:    span,
	}
}

func errExpectedDeclaration(gotKind TokenKind, gotToken string, span Span) error {
	return &Error{
		code: 2025,
		message: fmt.Sprintf(
			"Expected declaration (record, enum or fixed), got (%s %q)",
			gotKind, gotToken,
		),
		span: span,
	}
}

func errUnknownAnnotation(name string, span Span) error {
	return &Error{
		code:    2026,
		message: fmt.Sprintf("Annotation '@%s' is not allowed here", name),
		span:    span,
	}
}

func errDuplicateAnnotation(name string, span Span) error {
	return &Error{
		code:    2027,
		message: fmt.Sprintf("Duplicate annotation '@%s'", name),
		span:    span,
	}
}

func errTrailingInput(gotKind TokenKind, gotToken string, span Span) error {
	return &Error{
		code:    2028,
		message: fmt.Sprintf("Unexpected input after declaration: (%s %q)", gotKind, gotToken),
		span:    span,
	}
}

func errExpectedDefault(
	want schema.Kind,
	gotKind TokenKind,
	gotToken string,
	span Span,
) error {
	return &Error{
		code: 2029,
		message: fmt.Sprintf(
			"Expected default value of type %s, got (%s %q)",
			want, gotKind, gotToken,
		),
		span: span,
	}
}

func errExpectedTopLevel(gotKind TokenKind, gotToken string, span Span) error {
	return &Error{
		code: 2030,
		message: fmt.Sprintf(
			"Expected protocol or declaration, got (%s %q)",
			gotKind, gotToken,
		),
		span: span,
	}
}

func errInvalidName(name string, span Span) error {
	return &Error{
		code:    3000,
		message: fmt.Sprintf("Invalid name %q", name),
		span:    span,
	}
}

func errInvalidNamespace(namespace string, span Span) error {
	return &Error{
		code:    3001,
		message: fmt.Sprintf("Invalid namespace %q", namespace),
		span:    span,
	}
}

func errInvalidAlias(alias string, span Span) error {
	return &Error{
		code:    3002,
		message: fmt.Sprintf("Invalid alias %q", alias),
		span:    span,
	}
}

func errInvalidOrder(order string, span Span) error {
	return &Error{
		code: 3003,
		message: fmt.Sprintf(
			"Invalid field order %q (expected \"ascending\", \"descending\" or \"ignore\")",
			order,
		),
		span: span,
	}
}

func errInvalidUnion(err error, span Span) error {
	return &Error{
		code:    3004,
		message: fmt.Sprintf("Invalid union: %v", err),
		span:    span,
	}
}

func errInvalidDefault(want schema.Kind, token string, span Span) error {
	return &Error{
		code:    3005,
		message: fmt.Sprintf("Invalid %s default value %s", want, token),
		span:    span,
	}
}

func errDefaultOutOfRange(want schema.Kind, token string, span Span) error {
	return &Error{
		code:    3006,
		message: fmt.Sprintf("Default value %s is out of range for type %s", token, want),
		span:    span,
	}
}

func errInvalidUuid(token string, err error, span Span) error {
	return &Error{
		code:    3007,
		message: fmt.Sprintf("Invalid UUID %s: %v", token, err),
		span:    span,
	}
}

func errInvalidFixed(err error, span Span) error {
	return &Error{
		code:    3008,
		message: fmt.Sprintf("Invalid fixed: %v", err),
		span:    span,
	}
}

func errInvalidDecimal(err error, span Span) error {
	return &Error{
		code:    3009,
		message: fmt.Sprintf("Invalid decimal: %v", err),
		span:    span,
	}
}

func errInvalidEnum(err error, span Span) error {
	return &Error{
		code:    3010,
		message: fmt.Sprintf("Invalid enum: %v", err),
		span:    span,
	}
}

func errDuplicateMapKey(key string, span Span) error {
	return &Error{
		code:    3011,
		message: fmt.Sprintf("Duplicate key %q in map default", key),
		span:    span,
	}
}

func errInvalidRecord(err error, span Span) error {
	return &Error{
		code:    3012,
		message: fmt.Sprintf("Invalid record: %v", err),
		span:    span,
	}
}

func errDurationDefault(span Span) error {
	return &Error{
		code:    5000,
		message: "Default values for duration fields are not supported",
		span:    span,
	}
}

func errUnsupportedLogicalType(logicalType string, span Span) error {
	return &Error{
		code: 5001,
		message: fmt.Sprintf(
			"Unsupported logical type %q (expected \"timestamp-micros\", \"time-micros\" or \"duration\")",
			logicalType,
		),
		span: span,
	}
}

func errNamedDefault(name string, span Span) error {
	return &Error{
		code:    5002,
		message: fmt.Sprintf("Default values for named type %q are not supported", name),
		span:    span,
	}
}

func errInvalidSize(token string, span Span) error {
	return &Error{
		code:    3013,
		message: fmt.Sprintf("Invalid size %s (expected a non-negative integer)", token),
		span:    span,
	}
}

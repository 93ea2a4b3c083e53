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
)

const (
	maxSrcLen = 0x7FFFFFFF // (2**31)-1

	// Identifiers, numbers and whitespace runs are capped. Text literals and
	// comments may be as long as the source.
	maxTokenLen = int(math.MaxUint16)

	tokenFlagTextHasNoEscapes uint8 = 0x01
)

type Token struct {
	Len   uint32
	Kind  TokenKind
	flags uint8
}

type TokenKind uint8

const (
	T_EOF TokenKind = iota

	T_SPACE
	T_NEWLINE
	T_COMMENT
	T_DOC_COMMENT

	T_AT
	T_COLON
	T_COMMA
	T_SEMICOLON
	T_DOT
	T_EQ
	T_LT
	T_GT

	T_OPEN_CURL
	T_CLOSE_CURL
	T_OPEN_PAREN
	T_CLOSE_PAREN
	T_OPEN_SQUARE
	T_CLOSE_SQUARE

	T_NUM_LIT
	T_TEXT_LIT

	T_IDENT
)

func (k TokenKind) String() string {
	switch k {
	case T_EOF:
		return "EOF"
	case T_SPACE:
		return "SPACE"
	case T_NEWLINE:
		return "NEWLINE"
	case T_COMMENT:
		return "COMMENT"
	case T_DOC_COMMENT:
		return "DOC_COMMENT"
	case T_AT:
		return "AT"
	case T_COLON:
		return "COLON"
	case T_COMMA:
		return "COMMA"
	case T_SEMICOLON:
		return "SEMICOLON"
	case T_DOT:
		return "DOT"
	case T_EQ:
		return "EQ"
	case T_LT:
		return "LT"
	case T_GT:
		return "GT"
	case T_OPEN_CURL:
		return "OPEN_CURL"
	case T_CLOSE_CURL:
		return "CLOSE_CURL"
	case T_OPEN_PAREN:
		return "OPEN_PAREN"
	case T_CLOSE_PAREN:
		return "CLOSE_PAREN"
	case T_OPEN_SQUARE:
		return "OPEN_SQUARE"
	case T_CLOSE_SQUARE:
		return "CLOSE_SQUARE"
	case T_NUM_LIT:
		return "NUM_LIT"
	case T_TEXT_LIT:
		return "TEXT_LIT"
	case T_IDENT:
		return "IDENT"
	default:
		return fmt.Sprintf("TokenKind(%d)", uint8(k))
	}
}

func (k TokenKind) isTrivia() bool {
	switch k {
	case T_SPACE, T_NEWLINE, T_COMMENT, T_DOC_COMMENT:
		return true
	}
	return false
}

type Tokens struct {
	src    []byte
	offset uint32
}

func NewTokens(src []byte) (*Tokens, error) {
	if len(src) > maxSrcLen {
		return nil, errSourceTooLong(len(src))
	}
	if !utf8.Valid(src) {
		return nil, errInvalidUtf8(src)
	}
	return &Tokens{
		src: src,
	}, nil
}

func (t *Tokens) Next(token *Token) error {
	if len(t.src) == 0 {
		*token = Token{
			Kind: T_EOF,
		}
		return nil
	}

	c := t.src[0]
	var kind TokenKind
	switch c {
	case '\t', ' ':
		return t.nextSpace(token)
	case '\n':
		kind = T_NEWLINE
		goto len1
	case '@':
		kind = T_AT
		goto len1
	case ':':
		kind = T_COLON
		goto len1
	case ',':
		kind = T_COMMA
		goto len1
	case ';':
		kind = T_SEMICOLON
		goto len1
	case '=':
		kind = T_EQ
		goto len1
	case '<':
		kind = T_LT
		goto len1
	case '>':
		kind = T_GT
		goto len1
	case '{':
		kind = T_OPEN_CURL
		goto len1
	case '}':
		kind = T_CLOSE_CURL
		goto len1
	case '(':
		kind = T_OPEN_PAREN
		goto len1
	case ')':
		kind = T_CLOSE_PAREN
		goto len1
	case '[':
		kind = T_OPEN_SQUARE
		goto len1
	case ']':
		kind = T_CLOSE_SQUARE
		goto len1
	case '.':
		if len(t.src) > 1 && isDigit(t.src[1]) {
			return t.nextNumLit(token)
		}
		kind = T_DOT
		goto len1
	case '/':
		return t.nextComment(token)
	case '"':
		return t.nextTextLit(token)
	case '\r':
		if len(t.src) < 2 || t.src[1] != '\n' {
			return errForbiddenControlCharacter(t.offset, c)
		}
		*token = Token{
			Kind: T_NEWLINE,
			Len:  2,
		}
		t.offset += 2
		t.src = t.src[2:]
		return nil
	default:
		goto big
	}

len1:
	*token = Token{
		Kind: kind,
		Len:  1,
	}
	t.offset += 1
	t.src = t.src[1:]
	return nil

big:
	if isDigit(c) {
		return t.nextNumLit(token)
	}
	if c == '-' && len(t.src) > 1 && (isDigit(t.src[1]) || t.src[1] == '.') {
		return t.nextNumLit(token)
	}

	if isIdentStart(c) {
		return t.nextIdent(token)
	}

	r, _ := utf8.DecodeRune(t.src)
	if r == ' ' {
		return t.nextSpace(token)
	}

	if r < 0x20 || r == 0x7F {
		return errForbiddenControlCharacter(t.offset, c)
	}
	return errUnexpectedCharacter(t.offset, r)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || c == '_'
}

func isIdentContinue(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func (t *Tokens) nextSpace(token *Token) error {
	src := t.src
	for {
		if src[0] == ' ' || src[0] == '\t' {
			src = src[1:]
		} else if r, runeLen := utf8.DecodeRune(src); r == ' ' {
			src = src[runeLen:]
		} else {
			break
		}
		if len(src) == 0 {
			break
		}
	}
	tokenLen, err := t.checkTokenLen(len(t.src) - len(src))
	if err != nil {
		return err
	}
	*token = Token{
		Kind: T_SPACE,
		Len:  tokenLen,
	}
	t.offset += uint32(tokenLen)
	t.src = src
	return nil
}

// Line comments run up to (not including) the next newline. Block comments
// run up to and including "*/"; a block comment opened with "/**" is a doc
// comment.
func (t *Tokens) nextComment(token *Token) error {
	if len(t.src) < 2 || (t.src[1] != '/' && t.src[1] != '*') {
		return errUnexpectedCharacter(t.offset, '/')
	}

	kind := T_COMMENT
	tokenLen := len(t.src)
	if t.src[1] == '/' {
		for ii, c := range t.src {
			if c == '\n' || c == '\r' {
				tokenLen = ii
				break
			}
		}
	} else {
		end := -1
		for ii := 2; ii+1 < len(t.src); ii++ {
			if t.src[ii] == '*' && t.src[ii+1] == '/' {
				end = ii + 2
				break
			}
		}
		if end < 0 {
			return errCommentUnterminated(t.offset, uint32(len(t.src)))
		}
		tokenLen = end
		// "/**/" is an empty block comment, not a doc comment.
		if tokenLen > 4 && t.src[2] == '*' {
			kind = T_DOC_COMMENT
		}
	}

	*token = Token{
		Kind: kind,
		Len:  uint32(tokenLen),
	}
	t.offset += uint32(tokenLen)
	t.src = t.src[tokenLen:]
	return nil
}

// Number literals are scanned loosely (sign, digits, '.', exponent) and
// checked for shape here; range checks depend on the schema the literal is
// a default for.
func (t *Tokens) nextNumLit(token *Token) error {
	src := t.src
	tokenLen := 0
	if src[0] == '-' {
		tokenLen = 1
	}
	for tokenLen < len(src) {
		c := src[tokenLen]
		if isIdentContinue(c) || c == '.' {
			tokenLen++
			continue
		}
		if (c == '+' || c == '-') && (src[tokenLen-1] == 'e' || src[tokenLen-1] == 'E') {
			tokenLen++
			continue
		}
		break
	}

	if !validNumLit(src[:tokenLen]) {
		return errNumLitInvalid(t.offset, src[:tokenLen])
	}

	if tokenLen, err := t.checkTokenLen(tokenLen); err != nil {
		return err
	} else {
		*token = Token{
			Kind: T_NUM_LIT,
			Len:  tokenLen,
		}
	}
	t.offset += uint32(tokenLen)
	t.src = t.src[tokenLen:]
	return nil
}

// validNumLit accepts -?(digits[.digits*]|.digits)([eE][+-]?digits)?
func validNumLit(lit []byte) bool {
	if len(lit) > 0 && lit[0] == '-' {
		lit = lit[1:]
	}
	intDigits := 0
	for intDigits < len(lit) && isDigit(lit[intDigits]) {
		intDigits++
	}
	lit = lit[intDigits:]
	fracDigits := 0
	if len(lit) > 0 && lit[0] == '.' {
		lit = lit[1:]
		for fracDigits < len(lit) && isDigit(lit[fracDigits]) {
			fracDigits++
		}
		lit = lit[fracDigits:]
	}
	if intDigits == 0 && fracDigits == 0 {
		return false
	}
	if len(lit) == 0 {
		return true
	}
	if lit[0] != 'e' && lit[0] != 'E' {
		return false
	}
	lit = lit[1:]
	if len(lit) > 0 && (lit[0] == '+' || lit[0] == '-') {
		lit = lit[1:]
	}
	if len(lit) == 0 {
		return false
	}
	for _, c := range lit {
		if !isDigit(c) {
			return false
		}
	}
	return true
}

func (t *Tokens) nextTextLit(token *Token) error {
	src := t.src
	escaped := false
	hasEscapes := false
	ok := false
	var flags uint8
	for ii, c := range t.src {
		if ii == 0 {
			continue
		}
		if escaped {
			escaped = false
			continue
		}
		if c == '"' {
			src = t.src[:ii+1]
			ok = true
			break
		}
		if (c <= 0x1F || c == 0x7F) && c != 0x09 {
			off := t.offset + uint32(ii)
			if c == 0x0A {
				return errTextLitContainsNewline(off, 1)
			}
			if c == 0x0D && ii+1 < len(t.src) && t.src[ii+1] == 0x0A {
				return errTextLitContainsNewline(off, 2)
			}
			return errForbiddenControlCharacter(off, c)
		}
		if c == '\\' {
			escaped = true
			hasEscapes = true
		}
	}
	if !ok {
		return errTextLitUnterminated(t.offset, uint32(len(src)))
	}

	if !hasEscapes {
		flags |= tokenFlagTextHasNoEscapes
	}

	tokenLen := len(src)
	*token = Token{
		Kind:  T_TEXT_LIT,
		Len:   uint32(tokenLen),
		flags: flags,
	}
	t.offset += uint32(tokenLen)
	t.src = t.src[tokenLen:]
	return nil
}

func (t *Tokens) nextIdent(token *Token) error {
	tokenLen := len(t.src)
	for ii, c := range t.src {
		if !isIdentContinue(c) {
			tokenLen = ii
			break
		}
	}

	if tokenLen, err := t.checkTokenLen(tokenLen); err != nil {
		return err
	} else {
		*token = Token{
			Kind: T_IDENT,
			Len:  tokenLen,
		}
	}
	t.offset += uint32(tokenLen)
	t.src = t.src[tokenLen:]
	return nil
}

func (t *Tokens) checkTokenLen(len int) (uint32, error) {
	if len > maxTokenLen {
		return 0, errTokenTooLong(t.offset, len)
	}
	return uint32(len), nil
}

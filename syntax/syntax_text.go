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
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// decodeTextLit returns the value of a quoted text literal. Escapes follow
// JSON: \" \\ \/ \b \f \n \r \t and \uXXXX, with surrogate pairs combined.
func decodeTextLit(token string, start uint32, flags uint8) (string, error) {
	value := token[1 : len(token)-1]
	if flags&tokenFlagTextHasNoEscapes != 0 {
		return value, nil
	}

	invalid := func() (string, error) {
		return "", errTextLitInvalid(start, token)
	}

	var buf strings.Builder
	buf.Grow(len(value))
	for len(value) > 0 {
		c := value[0]
		if c != '\\' {
			buf.WriteByte(c)
			value = value[1:]
			continue
		}
		if len(value) < 2 {
			return invalid()
		}
		c = value[1]
		value = value[2:]

		switch c {
		case '"', '\\', '/':
			buf.WriteByte(c)
		case 'b':
			buf.WriteByte('\b')
		case 'f':
			buf.WriteByte('\f')
		case 'n':
			buf.WriteByte('\n')
		case 'r':
			buf.WriteByte('\r')
		case 't':
			buf.WriteByte('\t')
		case 'u':
			r, rest, ok := decodeHex4(value)
			if !ok {
				return invalid()
			}
			value = rest
			if utf16.IsSurrogate(r) {
				if len(value) < 2 || value[0] != '\\' || value[1] != 'u' {
					return invalid()
				}
				low, rest, ok := decodeHex4(value[2:])
				if !ok {
					return invalid()
				}
				r = utf16.DecodeRune(r, low)
				if r == utf8.RuneError {
					return invalid()
				}
				value = rest
			}
			buf.WriteRune(r)
		default:
			return invalid()
		}
	}
	return buf.String(), nil
}

func decodeHex4(s string) (rune, string, bool) {
	if len(s) < 4 {
		return 0, s, false
	}
	n, err := strconv.ParseUint(s[:4], 16, 16)
	if err != nil {
		return 0, s, false
	}
	return rune(n), s[4:], true
}

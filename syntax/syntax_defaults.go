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
	"errors"
	"math"
	"strconv"

	"github.com/google/uuid"

	"go.avrokit.dev/avrokit/schema"
)

// valueParser reads one default value literal. On failure it sets ctx.err
// and returns nil.
type valueParser func(ctx *parseCtx) any

// defaultParser selects the literal grammar for a default value from the
// schema it is a default for. Container parsers recurse into the grammar of
// their element type; a union uses the grammar of its first variant.
func defaultParser(t schema.Schema) valueParser {
	switch t := t.(type) {
	case schema.Builtin:
		switch t {
		case schema.Null:
			return parseNullValue
		case schema.Boolean:
			return parseBooleanValue
		case schema.Int, schema.Date, schema.TimeMillis:
			return intValueParser(t.Kind())
		case schema.Long, schema.TimeMicros, schema.TimestampMillis, schema.TimestampMicros:
			return longValueParser(t.Kind())
		case schema.Float:
			return floatValueParser(schema.KindFloat, 32)
		case schema.Double:
			return floatValueParser(schema.KindDouble, 64)
		case schema.Bytes:
			return bytesValueParser(schema.KindBytes)
		case schema.String:
			return parseStringValue
		case schema.Uuid:
			return parseUuidValue
		case schema.Duration:
			return func(ctx *parseCtx) any {
				if ctx.ensureToken() == nil {
					ctx.fail(errDurationDefault(ctx.tokenSpan()))
				}
				return nil
			}
		}
	case *schema.Decimal:
		return bytesValueParser(schema.KindDecimal)
	case *schema.Array:
		return arrayValueParser(defaultParser(t.Items))
	case *schema.Map:
		return mapValueParser(defaultParser(t.Values))
	case *schema.Union:
		return defaultParser(t.Variants()[0])
	}

	name, _ := schema.NamedType(t)
	return func(ctx *parseCtx) any {
		if ctx.ensureToken() == nil {
			ctx.fail(errNamedDefault(name.Fullname(), ctx.tokenSpan()))
		}
		return nil
	}
}

func unexpectedDefault(ctx *parseCtx, want schema.Kind) {
	if ctx.ensureToken() != nil {
		return
	}
	ctx.fail(errExpectedDefault(
		want,
		ctx.token.Kind,
		ctx.readToken(),
		ctx.tokenSpan(),
	))
}

func parseNullValue(ctx *parseCtx) any {
	if !ctx.tryKeyword("null") {
		unexpectedDefault(ctx, schema.KindNull)
	}
	return nil
}

func parseBooleanValue(ctx *parseCtx) any {
	if ctx.tryKeyword("true") {
		return true
	}
	if ctx.tryKeyword("false") {
		return false
	}
	unexpectedDefault(ctx, schema.KindBoolean)
	return nil
}

// numberToken reads the raw text of a number literal, or fails with an
// error naming the expected kind.
func numberToken(ctx *parseCtx, want schema.Kind) (string, Span, bool) {
	if !ctx.peek(T_NUM_LIT) {
		unexpectedDefault(ctx, want)
		return "", Span{}, false
	}
	token, span := ctx.number()
	return token, span, ctx.err == nil
}

func checkNumError(ctx *parseCtx, err error, want schema.Kind, token string, span Span) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, strconv.ErrRange) {
		ctx.fail(errDefaultOutOfRange(want, token, span))
	} else {
		ctx.fail(errInvalidDefault(want, token, span))
	}
	return false
}

func intValueParser(kind schema.Kind) valueParser {
	return func(ctx *parseCtx) any {
		token, span, ok := numberToken(ctx, kind)
		if !ok {
			return nil
		}
		n, err := strconv.ParseInt(token, 10, 32)
		if !checkNumError(ctx, err, kind, token, span) {
			return nil
		}
		return int32(n)
	}
}

func longValueParser(kind schema.Kind) valueParser {
	return func(ctx *parseCtx) any {
		token, span, ok := numberToken(ctx, kind)
		if !ok {
			return nil
		}
		n, err := strconv.ParseInt(token, 10, 64)
		if !checkNumError(ctx, err, kind, token, span) {
			return nil
		}
		return n
	}
}

// floatValueParser rejects literals whose magnitude overflows the target
// width, since JSON cannot carry an infinite value. A 32-bit result is
// widened to float64 after rounding.
func floatValueParser(kind schema.Kind, bitSize int) valueParser {
	return func(ctx *parseCtx) any {
		token, span, ok := numberToken(ctx, kind)
		if !ok {
			return nil
		}
		f, err := strconv.ParseFloat(token, bitSize)
		if !checkNumError(ctx, err, kind, token, span) {
			return nil
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			ctx.fail(errDefaultOutOfRange(kind, token, span))
			return nil
		}
		return f
	}
}

func textToken(ctx *parseCtx, want schema.Kind) (string, Span, bool) {
	if !ctx.peek(T_TEXT_LIT) {
		unexpectedDefault(ctx, want)
		return "", Span{}, false
	}
	value, span := ctx.text()
	return value, span, ctx.err == nil
}

func parseStringValue(ctx *parseCtx) any {
	value, _, ok := textToken(ctx, schema.KindString)
	if !ok {
		return nil
	}
	return value
}

func bytesValueParser(kind schema.Kind) valueParser {
	return func(ctx *parseCtx) any {
		value, _, ok := textToken(ctx, kind)
		if !ok {
			return nil
		}
		return schema.RawBytes(value)
	}
}

// parseUuidValue accepts any form google/uuid understands and stores the
// canonical hyphenated lowercase form.
func parseUuidValue(ctx *parseCtx) any {
	value, span, ok := textToken(ctx, schema.KindUuid)
	if !ok {
		return nil
	}
	parsed, err := uuid.Parse(value)
	if err != nil {
		ctx.fail(errInvalidUuid(strconv.Quote(value), err, span))
		return nil
	}
	return parsed.String()
}

func arrayValueParser(items valueParser) valueParser {
	return func(ctx *parseCtx) any {
		if !ctx.peek(T_OPEN_SQUARE) {
			unexpectedDefault(ctx, schema.KindArray)
			return nil
		}
		ctx.consumeToken()
		values := []any{}
		if ctx.trySigil(T_CLOSE_SQUARE) {
			return values
		}
		for ctx.err == nil {
			value := items(ctx)
			if ctx.err != nil {
				return nil
			}
			values = append(values, value)
			if !ctx.trySigil(T_COMMA) {
				break
			}
		}
		ctx.sigil(T_CLOSE_SQUARE)
		if ctx.err != nil {
			return nil
		}
		return values
	}
}

func mapValueParser(values valueParser) valueParser {
	return func(ctx *parseCtx) any {
		if !ctx.peek(T_OPEN_CURL) {
			unexpectedDefault(ctx, schema.KindMap)
			return nil
		}
		ctx.consumeToken()
		obj := schema.NewObject()
		if ctx.trySigil(T_CLOSE_CURL) {
			return obj
		}
		for ctx.err == nil {
			key, keySpan := ctx.text()
			ctx.sigil(T_COLON)
			if ctx.err != nil {
				return nil
			}
			if _, dup := obj.Get(key); dup {
				ctx.fail(errDuplicateMapKey(key, keySpan))
				return nil
			}
			value := values(ctx)
			if ctx.err != nil {
				return nil
			}
			obj.Set(key, value)
			if !ctx.trySigil(T_COMMA) {
				break
			}
		}
		ctx.sigil(T_CLOSE_CURL)
		if ctx.err != nil {
			return nil
		}
		return obj
	}
}

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

	"go.avrokit.dev/avrokit/schema"
)

var builtinKeywords = map[string]schema.Builtin{
	"null":         schema.Null,
	"boolean":      schema.Boolean,
	"string":       schema.String,
	"int":          schema.Int,
	"double":       schema.Double,
	"float":        schema.Float,
	"long":         schema.Long,
	"bytes":        schema.Bytes,
	"time_ms":      schema.TimeMillis,
	"timestamp_ms": schema.TimestampMillis,
	"date":         schema.Date,
	"uuid":         schema.Uuid,
}

// parseType resolves a type expression. The alternatives are tried in
// order; each one is selected by its leading keyword, so at most one can
// match.
func parseType(ctx *parseCtx) (schema.Schema, error) {
	for _, parseFn := range []func(*parseCtx) schema.Schema{
		parseUnionType,
		parseMapType,
		parseArrayType,
		parseDecimalType,
		parseBuiltinType,
		parseRefType,
	} {
		if t := parseFn(ctx); t != nil || ctx.err != nil {
			return t, ctx.err
		}
	}
	if err := ctx.ensureToken(); err != nil {
		return nil, err
	}
	ctx.fail(errExpectedType(ctx.token.Kind, ctx.readToken(), ctx.tokenSpan()))
	return nil, ctx.err
}

func parseUnionType(ctx *parseCtx) schema.Schema {
	if err := ctx.ensureToken(); err != nil {
		return nil
	}
	start := ctx.tokenStart
	if !ctx.tryKeyword("union") {
		return nil
	}
	var variants []schema.Schema
	ctx.sigil(T_OPEN_CURL)
	if !ctx.peek(T_CLOSE_CURL) {
		for ctx.err == nil {
			variant, err := parseType(ctx)
			if err != nil {
				return nil
			}
			variants = append(variants, variant)
			if !ctx.trySigil(T_COMMA) {
				break
			}
		}
	}
	end := ctx.tokenSpan().End()
	ctx.sigil(T_CLOSE_CURL)
	if ctx.err != nil {
		return nil
	}
	union, err := schema.NewUnion(variants...)
	if err != nil {
		ctx.fail(errInvalidUnion(err, Span{start, end - start}))
		return nil
	}
	return union
}

func parseMapType(ctx *parseCtx) schema.Schema {
	if !ctx.tryKeyword("map") {
		return nil
	}
	ctx.sigil(T_LT)
	values, err := parseType(ctx)
	if err != nil {
		return nil
	}
	ctx.sigil(T_GT)
	return schema.NewMap(values)
}

func parseArrayType(ctx *parseCtx) schema.Schema {
	if !ctx.tryKeyword("array") {
		return nil
	}
	ctx.sigil(T_LT)
	items, err := parseType(ctx)
	if err != nil {
		return nil
	}
	ctx.sigil(T_GT)
	return schema.NewArray(items)
}

func parseDecimalType(ctx *parseCtx) schema.Schema {
	if err := ctx.ensureToken(); err != nil {
		return nil
	}
	start := ctx.tokenStart
	if !ctx.tryKeyword("decimal") {
		return nil
	}
	ctx.sigil(T_OPEN_PAREN)
	precision := parseSize(ctx)
	ctx.sigil(T_COMMA)
	scale := parseSize(ctx)
	end := ctx.tokenSpan().End()
	ctx.sigil(T_CLOSE_PAREN)
	if ctx.err != nil {
		return nil
	}
	decimal, err := schema.NewDecimal(precision, scale, schema.Bytes)
	if err != nil {
		ctx.fail(errInvalidDecimal(err, Span{start, end - start}))
		return nil
	}
	return decimal
}

// parseSize reads a non-negative integer argument such as a fixed size or
// a decimal precision.
func parseSize(ctx *parseCtx) int {
	token, span := ctx.number()
	if ctx.err != nil {
		return 0
	}
	n, err := strconv.ParseUint(token, 10, 31)
	if err != nil {
		ctx.fail(errInvalidSize(token, span))
		return 0
	}
	return int(n)
}

func parseBuiltinType(ctx *parseCtx) schema.Schema {
	if err := ctx.ensureToken(); err != nil {
		return nil
	}
	if ctx.token.Kind != T_IDENT {
		return nil
	}
	builtin, ok := builtinKeywords[ctx.readToken()]
	if !ok {
		return nil
	}
	ctx.consumeToken()
	return builtin
}

func parseRefType(ctx *parseCtx) schema.Schema {
	if !ctx.peek(T_IDENT) {
		return nil
	}
	fullname, span := ctx.dottedIdent()
	if ctx.err != nil {
		return nil
	}
	name := schema.ParseName(fullname)
	if !schema.ValidName(name.Name) || !schema.ValidNamespace(name.Namespace) {
		ctx.fail(errInvalidName(fullname, span))
		return nil
	}
	ref := &schema.Ref{Name: name}
	ctx.mark(ref, span)
	return ref
}

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
	"go.avrokit.dev/avrokit/schema"
)

type annotationKind uint8

const (
	annNamespace annotationKind = 1 << iota
	annAliases
	annOrder
	annLogicalType
)

func (k annotationKind) name() string {
	switch k {
	case annNamespace:
		return "namespace"
	case annAliases:
		return "aliases"
	case annOrder:
		return "order"
	case annLogicalType:
		return "logicalType"
	}
	return ""
}

func lookupAnnotation(name string) (annotationKind, bool) {
	switch name {
	case "namespace":
		return annNamespace, true
	case "aliases":
		return annAliases, true
	case "order":
		return annOrder, true
	case "logicalType":
		return annLogicalType, true
	}
	return 0, false
}

// annotations collects "@name(value)" annotations. They may be written in
// any order, but each at most once.
type annotations struct {
	seen  annotationKind
	spans map[annotationKind]Span

	namespace   *string
	aliases     []string
	order       schema.Order
	logicalType schema.Builtin
}

func (a *annotations) has(kind annotationKind) bool {
	return a.seen&kind != 0
}

// reject fails on the first annotation of a kind not in allowed.
func (a *annotations) reject(ctx *parseCtx, allowed annotationKind) {
	for _, kind := range []annotationKind{annNamespace, annAliases, annOrder, annLogicalType} {
		if a.has(kind) && allowed&kind == 0 {
			ctx.fail(errUnknownAnnotation(kind.name(), a.spans[kind]))
			return
		}
	}
}

func parseAnnotations(ctx *parseCtx, into *annotations, allowed annotationKind) {
	for ctx.err == nil && ctx.peek(T_AT) {
		atSpan := ctx.tokenSpan()
		ctx.consumeToken()
		name, nameSpan := ctx.ident()
		if ctx.err != nil {
			return
		}
		span := Span{atSpan.start, nameSpan.End() - atSpan.start}

		kind, ok := lookupAnnotation(name)
		if !ok || allowed&kind == 0 {
			ctx.fail(errUnknownAnnotation(name, span))
			return
		}
		if into.has(kind) {
			ctx.fail(errDuplicateAnnotation(name, span))
			return
		}
		into.seen |= kind
		if into.spans == nil {
			into.spans = make(map[annotationKind]Span)
		}
		into.spans[kind] = span

		ctx.sigil(T_OPEN_PAREN)
		switch kind {
		case annNamespace:
			into.namespace = parseNamespaceValue(ctx)
		case annAliases:
			into.aliases = parseAliasesValue(ctx)
		case annOrder:
			into.order = parseOrderValue(ctx)
		case annLogicalType:
			into.logicalType = parseLogicalTypeValue(ctx)
		}
		ctx.sigil(T_CLOSE_PAREN)
	}
}

func parseNamespaceValue(ctx *parseCtx) *string {
	namespace, span := ctx.text()
	if ctx.err != nil {
		return nil
	}
	if !schema.ValidNamespace(namespace) {
		ctx.fail(errInvalidNamespace(namespace, span))
		return nil
	}
	return &namespace
}

func parseAliasesValue(ctx *parseCtx) []string {
	var aliases []string
	ctx.sigil(T_OPEN_SQUARE)
	for ctx.err == nil {
		alias, span := ctx.text()
		if ctx.err != nil {
			return nil
		}
		if !schema.ValidAlias(alias) {
			ctx.fail(errInvalidAlias(alias, span))
			return nil
		}
		aliases = append(aliases, alias)
		if !ctx.trySigil(T_COMMA) {
			break
		}
	}
	ctx.sigil(T_CLOSE_SQUARE)
	return aliases
}

func parseOrderValue(ctx *parseCtx) schema.Order {
	value, span := ctx.text()
	if ctx.err != nil {
		return schema.Ascending
	}
	order, ok := schema.ParseOrder(value)
	if !ok {
		ctx.fail(errInvalidOrder(value, span))
	}
	return order
}

func parseLogicalTypeValue(ctx *parseCtx) schema.Builtin {
	value, span := ctx.text()
	if ctx.err != nil {
		return 0
	}
	switch value {
	case "timestamp-micros":
		return schema.TimestampMicros
	case "time-micros":
		return schema.TimeMicros
	case "duration":
		return schema.Duration
	}
	ctx.fail(errUnsupportedLogicalType(value, span))
	return 0
}

// declPrefix is the doc comment and annotations written before a
// declaration keyword.
type declPrefix struct {
	doc         string
	annotations annotations
}

func parseDeclPrefix(ctx *parseCtx) *declPrefix {
	prefix := &declPrefix{
		doc: ctx.leadingDoc(),
	}
	parseAnnotations(ctx, &prefix.annotations, annNamespace|annAliases)
	if doc := ctx.leadingDoc(); doc != "" {
		prefix.doc = doc
	}
	return prefix
}

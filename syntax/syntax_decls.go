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

func parseDocument(ctx *parseCtx) (*Protocol, error) {
	prefix := parseDeclPrefix(ctx)
	if ctx.err != nil {
		return nil, ctx.err
	}

	protocol, err := parseProtocol(ctx, prefix)
	if err != nil {
		return nil, err
	}
	if protocol == nil {
		decl, err := parseNamedDecl(ctx, prefix)
		if err != nil {
			return nil, err
		}
		if decl == nil {
			return nil, errExpectedTopLevel(
				ctx.token.Kind,
				ctx.readToken(),
				ctx.tokenSpan(),
			)
		}
		protocol = &Protocol{
			Schemas: []schema.Schema{decl},
			spans:   ctx.spans,
		}
	}

	if err := ctx.ensureToken(); err != nil {
		return nil, err
	}
	if ctx.token.Kind != T_EOF {
		return nil, errTrailingInput(ctx.token.Kind, ctx.readToken(), ctx.tokenSpan())
	}
	ctx.consumeToken()
	return protocol, nil
}

func parseProtocol(ctx *parseCtx, prefix *declPrefix) (*Protocol, error) {
	if !ctx.tryKeyword("protocol") {
		return nil, ctx.err
	}
	prefix.annotations.reject(ctx, annNamespace)
	name, _ := ctx.ident()
	if ctx.err != nil {
		return nil, ctx.err
	}

	namespace := ctx.namespace
	if prefix.annotations.namespace != nil {
		namespace = *prefix.annotations.namespace
	}
	outer := ctx.namespace
	ctx.namespace = namespace
	defer func() { ctx.namespace = outer }()

	var schemas []schema.Schema
	ctx.sigil(T_OPEN_CURL)
	for {
		if ctx.trySigil(T_CLOSE_CURL) {
			break
		}
		if ctx.err != nil {
			return nil, ctx.err
		}
		declPrefix := parseDeclPrefix(ctx)
		if ctx.err != nil {
			return nil, ctx.err
		}
		decl, err := parseNamedDecl(ctx, declPrefix)
		if err != nil {
			return nil, err
		}
		if decl == nil {
			return nil, errExpectedDeclaration(
				ctx.token.Kind,
				ctx.readToken(),
				ctx.tokenSpan(),
			)
		}
		schemas = append(schemas, decl)
	}

	return &Protocol{
		Name:      name,
		Namespace: namespace,
		Doc:       prefix.doc,
		Schemas:   schemas,
		spans:     ctx.spans,
	}, nil
}

// parseNamedDecl returns a record, enum or fixed declaration, or nil if the
// next token starts none of them.
func parseNamedDecl(ctx *parseCtx, prefix *declPrefix) (schema.Schema, error) {
	if record, err := parseRecord(ctx, prefix); err != nil || record != nil {
		return record, err
	}
	if enum, err := parseEnum(ctx, prefix); err != nil || enum != nil {
		return enum, err
	}
	if fixed, err := parseFixed(ctx, prefix); err != nil || fixed != nil {
		return fixed, err
	}
	return nil, ctx.err
}

func parseRecord(ctx *parseCtx, prefix *declPrefix) (*schema.Record, error) {
	if err := ctx.ensureToken(); err != nil {
		return nil, err
	}
	start := ctx.tokenStart
	if !ctx.tryKeyword("record") {
		return nil, nil
	}
	name, nameSpan := ctx.ident()
	ctx.sigil(T_OPEN_CURL)

	var fields []*schema.Field
	for {
		if ctx.trySigil(T_CLOSE_CURL) {
			break
		}
		if ctx.err != nil {
			return nil, ctx.err
		}
		field, err := parseField(ctx)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	span := Span{start, uint32(ctx.offset) - start}

	record := &schema.Record{
		Name:    ctx.fullName(name, prefix.annotations.namespace),
		Aliases: prefix.annotations.aliases,
		Doc:     prefix.doc,
	}
	if err := record.SetFields(fields); err != nil {
		return nil, errInvalidRecord(err, span)
	}
	ctx.mark(record, nameSpan)
	return record, nil
}

func parseEnum(ctx *parseCtx, prefix *declPrefix) (*schema.Enum, error) {
	if err := ctx.ensureToken(); err != nil {
		return nil, err
	}
	start := ctx.tokenStart
	if !ctx.tryKeyword("enum") {
		return nil, nil
	}
	name, nameSpan := ctx.ident()
	ctx.sigil(T_OPEN_CURL)

	var symbols []string
	for ctx.err == nil {
		symbol, _ := ctx.ident()
		symbols = append(symbols, symbol)
		if !ctx.trySigil(T_COMMA) {
			break
		}
	}
	ctx.sigil(T_CLOSE_CURL)
	if ctx.err != nil {
		return nil, ctx.err
	}
	span := Span{start, uint32(ctx.offset) - start}

	fullName := ctx.fullName(name, prefix.annotations.namespace)
	enum, err := schema.NewEnum(fullName, symbols)
	if err != nil {
		return nil, errInvalidEnum(err, span)
	}
	enum.Aliases = prefix.annotations.aliases
	enum.Doc = prefix.doc
	ctx.mark(enum, nameSpan)

	if ctx.trySigil(T_EQ) {
		symbol, symbolSpan := ctx.ident()
		ctx.sigil(T_SEMICOLON)
		if ctx.err != nil {
			return nil, ctx.err
		}
		ctx.warn(warnEnumDefaultIgnored(fullName.Fullname(), symbol, symbolSpan))
	}
	return enum, ctx.err
}

func parseFixed(ctx *parseCtx, prefix *declPrefix) (*schema.Fixed, error) {
	if err := ctx.ensureToken(); err != nil {
		return nil, err
	}
	start := ctx.tokenStart
	if !ctx.tryKeyword("fixed") {
		return nil, nil
	}
	parseAnnotations(ctx, &prefix.annotations, annOrder|annAliases)
	if doc := ctx.leadingDoc(); doc != "" && prefix.doc == "" {
		prefix.doc = doc
	}
	name, nameSpan := ctx.ident()
	ctx.sigil(T_OPEN_PAREN)
	size := parseSize(ctx)
	ctx.sigil(T_CLOSE_PAREN)
	if ctx.err != nil {
		return nil, ctx.err
	}
	span := Span{start, uint32(ctx.offset) - start}
	ctx.sigil(T_SEMICOLON)
	if ctx.err != nil {
		return nil, ctx.err
	}

	fullName := ctx.fullName(name, prefix.annotations.namespace)
	fixed, err := schema.NewFixed(fullName, size)
	if err != nil {
		return nil, errInvalidFixed(err, span)
	}
	fixed.Aliases = prefix.annotations.aliases
	fixed.Doc = prefix.doc
	ctx.mark(fixed, nameSpan)
	if prefix.annotations.has(annOrder) {
		ctx.warn(warnFixedOrderIgnored(fullName.Fullname(), prefix.annotations.spans[annOrder]))
	}
	return fixed, nil
}

// parseField reads
//
//	[@logicalType(...)] TYPE [@order(...)] [@aliases(...)] NAME [= DEFAULT];
//
// A @logicalType annotation replaces the written type.
func parseField(ctx *parseCtx) (*schema.Field, error) {
	doc := ctx.leadingDoc()
	var annots annotations
	parseAnnotations(ctx, &annots, annLogicalType)
	if d := ctx.leadingDoc(); d != "" {
		doc = d
	}
	if ctx.err != nil {
		return nil, ctx.err
	}

	typeStart := ctx.tokenStart
	fieldType, err := parseType(ctx)
	if err != nil {
		return nil, err
	}
	if annots.has(annLogicalType) {
		if !logicalBaseMatches(annots.logicalType, fieldType) {
			ctx.warn(warnLogicalTypeBase(
				annots.logicalType,
				describeType(fieldType),
				Span{typeStart, ctx.offset - typeStart},
			))
		}
		fieldType = annots.logicalType
	}

	parseAnnotations(ctx, &annots, annOrder|annAliases)
	name, _ := ctx.ident()
	if ctx.err != nil {
		return nil, ctx.err
	}

	field := &schema.Field{
		Name:    name,
		Doc:     doc,
		Type:    fieldType,
		Order:   annots.order,
		Aliases: annots.aliases,
	}
	if ctx.trySigil(T_EQ) {
		value := defaultParser(fieldType)(ctx)
		if ctx.err != nil {
			return nil, ctx.err
		}
		field.Default = &schema.Default{Value: value}
	}
	ctx.sigil(T_SEMICOLON)
	if ctx.err != nil {
		return nil, ctx.err
	}
	return field, nil
}

// logicalBaseMatches reports whether the type written after a @logicalType
// annotation is the one the logical type is defined over: long for the
// microsecond types, a fixed for duration.
func logicalBaseMatches(logical schema.Builtin, written schema.Schema) bool {
	switch logical {
	case schema.Duration:
		return written.Kind() == schema.KindRef || written.Kind() == schema.KindFixed
	default:
		base, _ := logical.Base()
		return written == schema.Schema(base)
	}
}

func describeType(s schema.Schema) string {
	if name, ok := schema.NamedType(s); ok {
		return name.Fullname()
	}
	return s.Kind().String()
}

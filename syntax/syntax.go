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
	"strings"

	"go.avrokit.dev/avrokit/schema"
)

type ParseOption interface {
	apply(*ParseOptions)
}

type parseOptionFunc func(*ParseOptions)

func (fn parseOptionFunc) apply(opts *ParseOptions) {
	fn(opts)
}

// DefaultNamespace sets the namespace of declarations that neither carry a
// @namespace annotation nor appear inside a protocol with one.
func DefaultNamespace(namespace string) ParseOption {
	return parseOptionFunc(func(opts *ParseOptions) {
		opts.namespace = namespace
	})
}

// Parse reads a whole AVDL document: one protocol, or a single record, enum
// or fixed declaration. Only whitespace and comments may follow it.
func Parse(src []byte, opts ...ParseOption) (*Result[*Protocol], error) {
	return NewParseOptions(opts...).Parse(src)
}

type ParseOptions struct {
	namespace string
}

func NewParseOptions(opts ...ParseOption) *ParseOptions {
	parseOpts := &ParseOptions{}
	for _, opt := range opts {
		opt.apply(parseOpts)
	}
	return parseOpts
}

// Result is the outcome of a successful parse. Rest is the input that
// follows the parsed item.
type Result[T any] struct {
	Value    T
	Rest     []byte
	Warnings []*Warning
}

// Protocol is the top-level container of an AVDL document. A document that
// holds a single declaration yields a Protocol with an empty Name.
type Protocol struct {
	Name      string
	Namespace string
	Doc       string
	Schemas   []schema.Schema

	spans map[schema.Schema]Span
}

// Span returns the location of a declaration's name or of a reference to
// a named type. Other nodes have no recorded location.
func (p *Protocol) Span(s schema.Schema) Span {
	return p.spans[s]
}

func (opts *ParseOptions) Parse(src []byte) (*Result[*Protocol], error) {
	return parseWith(opts, src, parseDocument)
}

func (opts *ParseOptions) ParseProtocol(src []byte) (*Result[*Protocol], error) {
	return parseWith(opts, src, func(ctx *parseCtx) (*Protocol, error) {
		return expect(ctx, "protocol", parseProtocol)
	})
}

func (opts *ParseOptions) ParseRecord(src []byte) (*Result[*schema.Record], error) {
	return parseWith(opts, src, func(ctx *parseCtx) (*schema.Record, error) {
		return expect(ctx, "record", parseRecord)
	})
}

func (opts *ParseOptions) ParseEnum(src []byte) (*Result[*schema.Enum], error) {
	return parseWith(opts, src, func(ctx *parseCtx) (*schema.Enum, error) {
		return expect(ctx, "enum", parseEnum)
	})
}

func (opts *ParseOptions) ParseFixed(src []byte) (*Result[*schema.Fixed], error) {
	return parseWith(opts, src, func(ctx *parseCtx) (*schema.Fixed, error) {
		return expect(ctx, "fixed", parseFixed)
	})
}

func (opts *ParseOptions) ParseField(src []byte) (*Result[*schema.Field], error) {
	return parseWith(opts, src, parseField)
}

func (opts *ParseOptions) ParseType(src []byte) (*Result[schema.Schema], error) {
	return parseWith(opts, src, parseType)
}

// ParseDefault reads a default value literal shaped by t.
func (opts *ParseOptions) ParseDefault(t schema.Schema, src []byte) (*Result[*schema.Default], error) {
	return parseWith(opts, src, func(ctx *parseCtx) (*schema.Default, error) {
		value := defaultParser(t)(ctx)
		if ctx.err != nil {
			return nil, ctx.err
		}
		return &schema.Default{Value: value}, nil
	})
}

func parseWith[T any](
	opts *ParseOptions,
	src []byte,
	parseFn func(*parseCtx) (T, error),
) (*Result[T], error) {
	ctx, err := newParseCtx(opts, src)
	if err != nil {
		return nil, err
	}
	value, err := parseFn(ctx)
	if err == nil {
		err = ctx.err
	}
	if err != nil {
		return nil, err
	}
	return &Result[T]{
		Value:    value,
		Rest:     ctx.src,
		Warnings: ctx.warnings,
	}, nil
}

// expect runs a declaration parser that returns nil when its leading
// keyword is absent, turning that case into an error.
func expect[T any](
	ctx *parseCtx,
	keyword string,
	parseFn func(*parseCtx, *declPrefix) (*T, error),
) (*T, error) {
	prefix := parseDeclPrefix(ctx)
	if ctx.err != nil {
		return nil, ctx.err
	}
	value, err := parseFn(ctx, prefix)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, errExpectedKeyword(
			keyword,
			ctx.token.Kind,
			ctx.readToken(),
			ctx.tokenSpan(),
		)
	}
	return value, nil
}

// parseCtx is a cursor over the input. Whitespace and comments are skipped
// when the next token is read; the text of the last doc comment before that
// token is kept until the token is consumed.
type parseCtx struct {
	opts      *ParseOptions
	src       []byte
	offset    uint32
	namespace string

	haveToken  bool
	token      Token
	tokenStart uint32
	doc        string
	hasDoc     bool

	// Locations of named declarations and references, keyed by node.
	spans map[schema.Schema]Span

	warnings []*Warning
	err      error
}

func newParseCtx(opts *ParseOptions, src []byte) (*parseCtx, error) {
	if _, err := NewTokens(src); err != nil {
		return nil, err
	}
	if !schema.ValidNamespace(opts.namespace) {
		return nil, errInvalidNamespace(opts.namespace, Span{})
	}
	return &parseCtx{
		opts:      opts,
		src:       src,
		namespace: opts.namespace,
	}, nil
}

func (ctx *parseCtx) ensureToken() error {
	if ctx.err != nil {
		return ctx.err
	}
	if ctx.haveToken {
		return nil
	}
	tokens := Tokens{src: ctx.src, offset: ctx.offset}
	ctx.doc = ""
	ctx.hasDoc = false
	for {
		start := tokens.offset
		if err := tokens.Next(&ctx.token); err != nil {
			ctx.err = err
			return err
		}
		if ctx.token.Kind == T_DOC_COMMENT {
			raw := ctx.src[start-ctx.offset:][:ctx.token.Len]
			ctx.doc = strings.TrimSpace(string(raw[3 : len(raw)-2]))
			ctx.hasDoc = true
		}
		if !ctx.token.Kind.isTrivia() {
			ctx.tokenStart = start
			break
		}
	}
	ctx.haveToken = true
	return nil
}

func (ctx *parseCtx) readToken() string {
	return string(ctx.src[ctx.tokenStart-ctx.offset:][:ctx.token.Len])
}

func (ctx *parseCtx) tokenSpan() Span {
	return Span{
		start: ctx.tokenStart,
		len:   ctx.token.Len,
	}
}

func (ctx *parseCtx) consumeToken() {
	n := ctx.tokenStart - ctx.offset + ctx.token.Len
	ctx.src = ctx.src[n:]
	ctx.offset += n
	ctx.haveToken = false
	ctx.doc = ""
	ctx.hasDoc = false
}

func (ctx *parseCtx) fail(err error) {
	if ctx.err == nil {
		ctx.err = err
	}
}

func (ctx *parseCtx) warn(w *Warning) {
	ctx.warnings = append(ctx.warnings, w)
}

func (ctx *parseCtx) mark(s schema.Schema, span Span) {
	if ctx.spans == nil {
		ctx.spans = make(map[schema.Schema]Span)
	}
	ctx.spans[s] = span
}

// peek reports whether the next token has the given kind, without
// consuming it.
func (ctx *parseCtx) peek(kind TokenKind) bool {
	if err := ctx.ensureToken(); err != nil {
		return false
	}
	return ctx.token.Kind == kind
}

// leadingDoc returns the doc comment immediately before the next token.
func (ctx *parseCtx) leadingDoc() string {
	if err := ctx.ensureToken(); err != nil {
		return ""
	}
	doc := ctx.doc
	ctx.doc = ""
	ctx.hasDoc = false
	return doc
}

func (ctx *parseCtx) sigil(kind TokenKind) {
	if err := ctx.ensureToken(); err != nil {
		return
	}
	if ctx.token.Kind != kind {
		ctx.err = errExpectedSigil(
			kind,
			ctx.token.Kind,
			ctx.readToken(),
			ctx.tokenSpan(),
		)
		return
	}
	ctx.consumeToken()
}

func (ctx *parseCtx) trySigil(kind TokenKind) bool {
	if err := ctx.ensureToken(); err != nil {
		return false
	}
	if ctx.token.Kind != kind {
		return false
	}
	ctx.consumeToken()
	return true
}

func (ctx *parseCtx) tryKeyword(keyword string) bool {
	if err := ctx.ensureToken(); err != nil {
		return false
	}
	if ctx.token.Kind != T_IDENT {
		return false
	}
	if ctx.readToken() != keyword {
		return false
	}
	ctx.consumeToken()
	return true
}

func (ctx *parseCtx) ident() (string, Span) {
	if err := ctx.ensureToken(); err != nil {
		return "", Span{}
	}
	token := ctx.readToken()
	span := ctx.tokenSpan()
	if ctx.token.Kind != T_IDENT {
		ctx.err = errExpectedIdent(ctx.token.Kind, token, span)
		return "", span
	}
	ctx.consumeToken()
	return token, span
}

// dottedIdent reads a name such as "org.example.Thing".
func (ctx *parseCtx) dottedIdent() (string, Span) {
	name, span := ctx.ident()
	for ctx.err == nil && ctx.trySigil(T_DOT) {
		part, partSpan := ctx.ident()
		name += "." + part
		span.len = partSpan.End() - span.start
	}
	return name, span
}

func (ctx *parseCtx) text() (string, Span) {
	if err := ctx.ensureToken(); err != nil {
		return "", Span{}
	}
	token := ctx.readToken()
	span := ctx.tokenSpan()
	if ctx.token.Kind != T_TEXT_LIT {
		ctx.err = errExpectedTextLit(ctx.token.Kind, token, span)
		return "", span
	}
	value, err := decodeTextLit(token, span.start, ctx.token.flags)
	if err != nil {
		ctx.err = err
		return "", span
	}
	ctx.consumeToken()
	return value, span
}

// number returns the raw text of a number literal.
func (ctx *parseCtx) number() (string, Span) {
	if err := ctx.ensureToken(); err != nil {
		return "", Span{}
	}
	token := ctx.readToken()
	span := ctx.tokenSpan()
	if ctx.token.Kind != T_NUM_LIT {
		ctx.err = errExpectedNumLit(ctx.token.Kind, token, span)
		return "", span
	}
	ctx.consumeToken()
	return token, span
}

// fullName qualifies a declared name with the namespace in effect.
func (ctx *parseCtx) fullName(name string, namespace *string) schema.Name {
	if namespace != nil {
		return schema.Name{Name: name, Namespace: *namespace}
	}
	return schema.Name{Name: name, Namespace: ctx.namespace}
}

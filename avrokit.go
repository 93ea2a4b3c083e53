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

// Package avrokit converts Avro IDL (AVDL) documents into Avro JSON schema
// (AVSC) documents.
//
// The conversion runs in three stages, each usable on its own: package
// [go.avrokit.dev/avrokit/syntax] parses AVDL text into schema trees,
// package [go.avrokit.dev/avrokit/compiler] resolves references between
// named types, and package [go.avrokit.dev/avrokit/encoding/avsc] renders
// the trees as JSON.
package avrokit

import (
	"fmt"
	"strings"

	"go.avrokit.dev/avrokit/compiler"
	"go.avrokit.dev/avrokit/encoding/avsc"
	"go.avrokit.dev/avrokit/schema"
	"go.avrokit.dev/avrokit/syntax"
)

const Version = "0.1.0"

// FileExt is appended to a declaration's name to form its document's
// file name.
const FileExt = ".avsc"

type ConvertOption interface {
	apply(*ConvertOptions)
}

type convertOption func(*ConvertOptions)

func (f convertOption) apply(opts *ConvertOptions) { f(opts) }

type ConvertOptions struct {
	parseOpts []syntax.ParseOption
	deps      *compiler.SchemaSet
	all       bool
	verify    bool
	prefix    string
	indent    string
}

func WithParseOptions(opts ...syntax.ParseOption) ConvertOption {
	return convertOption(func(convertOpts *ConvertOptions) {
		convertOpts.parseOpts = append(convertOpts.parseOpts, opts...)
	})
}

// WithDependencies makes the named types of other documents available to
// references. Dependencies are not themselves converted.
func WithDependencies(deps *compiler.SchemaSet) ConvertOption {
	return convertOption(func(opts *ConvertOptions) {
		opts.deps = deps
	})
}

// AllDeclarations controls whether enum and fixed declarations get their
// own documents. By default only records do.
func AllDeclarations(all bool) ConvertOption {
	return convertOption(func(opts *ConvertOptions) {
		opts.all = all
	})
}

// Verify checks the produced documents with an independent Avro
// implementation before returning them.
func Verify(verify bool) ConvertOption {
	return convertOption(func(opts *ConvertOptions) {
		opts.verify = verify
	})
}

// Indent sets the pretty-printing of documents. The default indent is two
// spaces; an empty prefix and indent produce compact JSON.
func Indent(prefix, indent string) ConvertOption {
	return convertOption(func(opts *ConvertOptions) {
		opts.prefix = prefix
		opts.indent = indent
	})
}

// Document is the AVSC rendering of one named declaration.
type Document struct {
	Name     schema.Name
	Kind     schema.Kind
	FileName string
	JSON     []byte

	// Schema is the declaration with its references qualified.
	Schema schema.Schema
}

// Diagnostic is a warning or error reported against a span of the input.
type Diagnostic interface {
	Code() uint32
	Message() string
	Span() syntax.Span
}

type ConvertResult struct {
	Protocol  *syntax.Protocol
	Documents []*Document
	Warnings  []Diagnostic
}

// CompileError collects the errors reported while resolving named types.
type CompileError struct {
	Errors []*compiler.Error
}

func (err *CompileError) Error() string {
	msgs := make([]string, 0, len(err.Errors))
	for _, e := range err.Errors {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "\n")
}

func (err *CompileError) Unwrap() []error {
	out := make([]error, 0, len(err.Errors))
	for _, e := range err.Errors {
		out = append(out, e)
	}
	return out
}

// Convert parses src and renders one document per record declaration, in
// declaration order.
func Convert(src []byte, opts ...ConvertOption) (*ConvertResult, error) {
	return NewConvertOptions(opts...).Convert(src)
}

func NewConvertOptions(opts ...ConvertOption) *ConvertOptions {
	convertOpts := &ConvertOptions{indent: "  "}
	for _, opt := range opts {
		opt.apply(convertOpts)
	}
	return convertOpts
}

// Convert is like the package-level Convert. A *syntax.Error is returned
// as is. When name resolution fails the error is a *CompileError and the
// result still carries the protocol and its warnings.
func (opts *ConvertOptions) Convert(src []byte) (*ConvertResult, error) {
	parsed, err := syntax.Parse(src, opts.parseOpts...)
	if err != nil {
		return nil, err
	}
	return opts.ConvertParsed(parsed)
}

// ConvertParsed converts a protocol that has already been parsed, keeping
// its parse warnings. Parse options do not apply. The compiler qualifies the
// protocol's references in place, so a protocol must not be converted while
// another conversion reads it as a dependency.
func (opts *ConvertOptions) ConvertParsed(parsed *syntax.Result[*syntax.Protocol]) (*ConvertResult, error) {
	result := &ConvertResult{Protocol: parsed.Value}
	for _, w := range parsed.Warnings {
		result.Warnings = append(result.Warnings, w)
	}

	var compileOpts []compiler.CompileOption
	if opts.deps != nil {
		compileOpts = append(compileOpts, compiler.WithDependencies(opts.deps))
	}
	compiled := compiler.Compile(parsed.Value, compileOpts...)
	for _, w := range compiled.Warnings {
		result.Warnings = append(result.Warnings, w)
	}
	if len(compiled.Errors) > 0 {
		return result, &CompileError{Errors: compiled.Errors}
	}

	if opts.verify {
		if err := opts.verifyAll(compiled.Schemas); err != nil {
			return result, err
		}
	}

	for _, s := range compiled.Schemas {
		if !opts.all && s.Kind() != schema.KindRecord {
			continue
		}
		name, _ := schema.NamedType(s)
		doc, err := opts.marshal(s)
		if err != nil {
			return result, fmt.Errorf("avrokit: %s: %w", name.Fullname(), err)
		}
		result.Documents = append(result.Documents, &Document{
			Name:     name,
			Kind:     s.Kind(),
			FileName: name.Name + FileExt,
			JSON:     doc,
			Schema:   s,
		})
	}
	return result, nil
}

func (opts *ConvertOptions) marshal(s schema.Schema) ([]byte, error) {
	if opts.prefix == "" && opts.indent == "" {
		return avsc.Marshal(s)
	}
	return avsc.MarshalIndent(s, opts.prefix, opts.indent)
}

// verifyAll checks every declaration, written or not, along with the
// dependencies the declarations may refer to. Bytes and decimal defaults are
// handed to the verifier as strings, which is how it reads them.
func (opts *ConvertOptions) verifyAll(schemas []schema.Schema) error {
	local := make(map[string]bool, len(schemas))
	for _, s := range schemas {
		if name, ok := schema.NamedType(s); ok {
			local[name.Fullname()] = true
		}
	}

	var docs [][]byte
	if opts.deps != nil {
		for _, fullname := range opts.deps.Names() {
			dep, ok := opts.deps.Lookup(fullname)
			if !ok || local[fullname] {
				continue
			}
			doc, err := avsc.Marshal(dep, avsc.StringBytes())
			if err != nil {
				return fmt.Errorf("avrokit: %s: %w", fullname, err)
			}
			docs = append(docs, doc)
		}
	}
	for _, s := range schemas {
		doc, err := avsc.Marshal(s, avsc.StringBytes())
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}
	return avsc.Verify(docs...)
}

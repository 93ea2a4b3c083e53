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

// Package avsc renders schema trees as Avro JSON schema documents.
package avsc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"go.avrokit.dev/avrokit/schema"
)

type EncodeOption interface {
	apply(*encodeOptions)
}

type encodeOptionFunc func(*encodeOptions)

func (fn encodeOptionFunc) apply(opts *encodeOptions) {
	fn(opts)
}

type encodeOptions struct {
	prefix      string
	indent      string
	stringBytes bool
}

// Indent pretty-prints the document, one key per line.
func Indent(prefix, indent string) EncodeOption {
	return encodeOptionFunc(func(opts *encodeOptions) {
		opts.prefix = prefix
		opts.indent = indent
	})
}

// StringBytes writes bytes and decimal defaults as JSON strings holding one
// code point per byte (U+0000 to U+00FF), the form Avro implementations read
// back. Without it they are arrays of byte values.
func StringBytes() EncodeOption {
	return encodeOptionFunc(func(opts *encodeOptions) {
		opts.stringBytes = true
	})
}

// Marshal returns the compact JSON form of s.
func Marshal(s schema.Schema, opts ...EncodeOption) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeTo(s, &buf, opts...); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func MarshalIndent(s schema.Schema, prefix, indent string) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeTo(s, &buf, Indent(prefix, indent)); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// EncodeTo writes the JSON form of s to w, followed by a newline.
func EncodeTo(s schema.Schema, w io.Writer, opts ...EncodeOption) error {
	var encodeOpts encodeOptions
	for _, opt := range opts {
		opt.apply(&encodeOpts)
	}
	value, err := encodeOpts.encode(s)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if encodeOpts.prefix != "" || encodeOpts.indent != "" {
		enc.SetIndent(encodeOpts.prefix, encodeOpts.indent)
	}
	return enc.Encode(value)
}

func (opts *encodeOptions) encode(s schema.Schema) (any, error) {
	switch s := s.(type) {
	case schema.Builtin:
		return encodeBuiltin(s), nil
	case *schema.Array:
		items, err := opts.encode(s.Items)
		if err != nil {
			return nil, err
		}
		obj := schema.NewObject()
		obj.Set("type", "array")
		obj.Set("items", items)
		return obj, nil
	case *schema.Map:
		values, err := opts.encode(s.Values)
		if err != nil {
			return nil, err
		}
		obj := schema.NewObject()
		obj.Set("type", "map")
		obj.Set("values", values)
		return obj, nil
	case *schema.Union:
		variants := make([]any, 0, len(s.Variants()))
		for _, variant := range s.Variants() {
			value, err := opts.encode(variant)
			if err != nil {
				return nil, err
			}
			variants = append(variants, value)
		}
		return variants, nil
	case *schema.Record:
		return opts.encodeRecord(s)
	case *schema.Enum:
		obj := schema.NewObject()
		obj.Set("type", "enum")
		setName(obj, s.Name)
		obj.Set("symbols", s.Symbols)
		setAliases(obj, s.Aliases)
		setDoc(obj, s.Doc)
		return obj, nil
	case *schema.Fixed:
		obj := schema.NewObject()
		obj.Set("type", "fixed")
		setName(obj, s.Name)
		setDoc(obj, s.Doc)
		obj.Set("size", s.Size)
		setAliases(obj, s.Aliases)
		return obj, nil
	case *schema.Decimal:
		inner, err := opts.encode(s.Inner)
		if err != nil {
			return nil, err
		}
		obj := schema.NewObject()
		obj.Set("type", inner)
		obj.Set("logicalType", "decimal")
		obj.Set("scale", s.Scale)
		obj.Set("precision", s.Precision)
		return obj, nil
	case *schema.Ref:
		return s.Name.Fullname(), nil
	}
	return nil, fmt.Errorf("avsc: unsupported schema %T", s)
}

func encodeBuiltin(b schema.Builtin) any {
	if !b.IsLogical() {
		return b.String()
	}
	obj := schema.NewObject()
	if base, ok := b.Base(); ok {
		obj.Set("type", base.String())
	} else {
		fixed := schema.DurationFixed()
		inner := schema.NewObject()
		inner.Set("type", "fixed")
		inner.Set("name", fixed.Name.Name)
		inner.Set("size", fixed.Size)
		obj.Set("type", inner)
	}
	obj.Set("logicalType", b.String())
	return obj
}

func (opts *encodeOptions) encodeRecord(r *schema.Record) (any, error) {
	fields := make([]any, 0, len(r.Fields()))
	for _, field := range r.Fields() {
		fieldType, err := opts.encode(field.Type)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field.Name, err)
		}
		obj := schema.NewObject()
		obj.Set("name", field.Name)
		obj.Set("type", fieldType)
		if field.Default != nil {
			obj.Set("default", opts.encodeDefault(field.Default.Value))
		}
		setAliases(obj, field.Aliases)
		setDoc(obj, field.Doc)
		if field.Order != schema.Ascending {
			obj.Set("order", field.Order.String())
		}
		fields = append(fields, obj)
	}

	obj := schema.NewObject()
	obj.Set("type", "record")
	setName(obj, r.Name)
	setDoc(obj, r.Doc)
	setAliases(obj, r.Aliases)
	obj.Set("fields", fields)
	return obj, nil
}

func (opts *encodeOptions) encodeDefault(value any) any {
	switch value := value.(type) {
	case schema.RawBytes:
		if !opts.stringBytes {
			return value
		}
		runes := make([]rune, len(value))
		for ii, b := range value {
			runes[ii] = rune(b)
		}
		return string(runes)
	case []any:
		out := make([]any, len(value))
		for ii, item := range value {
			out[ii] = opts.encodeDefault(item)
		}
		return out
	case *schema.Object:
		out := schema.NewObject()
		for pair := value.Oldest(); pair != nil; pair = pair.Next() {
			out.Set(pair.Key, opts.encodeDefault(pair.Value))
		}
		return out
	}
	return value
}

func setName(obj *schema.Object, name schema.Name) {
	obj.Set("name", name.Name)
	if name.Namespace != "" {
		obj.Set("namespace", name.Namespace)
	}
}

func setDoc(obj *schema.Object, doc string) {
	if doc != "" {
		obj.Set("doc", doc)
	}
}

func setAliases(obj *schema.Object, aliases []string) {
	if len(aliases) > 0 {
		obj.Set("aliases", aliases)
	}
}

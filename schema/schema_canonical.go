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

package schema

import (
	"encoding/json"
	"strconv"
	"strings"
)

// CanonicalForm renders s in Avro's Parsing Canonical Form: docs, aliases,
// defaults, field orders and logical type annotations are dropped, named
// types use their full name, and object keys appear in the order name,
// type, fields, symbols, items, values, size.
func CanonicalForm(s Schema) string {
	var buf strings.Builder
	writeCanonical(&buf, s)
	return buf.String()
}

// Equal reports whether a and b have the same canonical form.
func Equal(a, b Schema) bool {
	return CanonicalForm(a) == CanonicalForm(b)
}

func writeCanonical(buf *strings.Builder, s Schema) {
	switch s := s.(type) {
	case Builtin:
		if s == Duration {
			writeCanonical(buf, DurationFixed())
			return
		}
		base, _ := s.Base()
		writeString(buf, base.String())
	case *Array:
		buf.WriteString(`{"type":"array","items":`)
		writeCanonical(buf, s.Items)
		buf.WriteByte('}')
	case *Map:
		buf.WriteString(`{"type":"map","values":`)
		writeCanonical(buf, s.Values)
		buf.WriteByte('}')
	case *Union:
		buf.WriteByte('[')
		for ii, variant := range s.Variants() {
			if ii > 0 {
				buf.WriteByte(',')
			}
			writeCanonical(buf, variant)
		}
		buf.WriteByte(']')
	case *Record:
		buf.WriteString(`{"name":`)
		writeString(buf, s.Name.Fullname())
		buf.WriteString(`,"type":"record","fields":[`)
		for ii, field := range s.Fields() {
			if ii > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(`{"name":`)
			writeString(buf, field.Name)
			buf.WriteString(`,"type":`)
			writeCanonical(buf, field.Type)
			buf.WriteByte('}')
		}
		buf.WriteString(`]}`)
	case *Enum:
		buf.WriteString(`{"name":`)
		writeString(buf, s.Name.Fullname())
		buf.WriteString(`,"type":"enum","symbols":[`)
		for ii, symbol := range s.Symbols {
			if ii > 0 {
				buf.WriteByte(',')
			}
			writeString(buf, symbol)
		}
		buf.WriteString(`]}`)
	case *Fixed:
		buf.WriteString(`{"name":`)
		writeString(buf, s.Name.Fullname())
		buf.WriteString(`,"type":"fixed","size":`)
		buf.WriteString(strconv.Itoa(s.Size))
		buf.WriteByte('}')
	case *Decimal:
		writeCanonical(buf, s.Inner)
	case *Ref:
		writeString(buf, s.Name.Fullname())
	}
}

func writeString(buf *strings.Builder, s string) {
	quoted, _ := json.Marshal(s)
	buf.Write(quoted)
}

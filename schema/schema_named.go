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
	"fmt"
	"slices"
)

type Order uint8

const (
	Ascending Order = iota
	Descending
	Ignore
)

func (o Order) String() string {
	switch o {
	case Ascending:
		return "ascending"
	case Descending:
		return "descending"
	case Ignore:
		return "ignore"
	default:
		return fmt.Sprintf("Order(%d)", uint8(o))
	}
}

func ParseOrder(s string) (Order, bool) {
	switch s {
	case "ascending":
		return Ascending, true
	case "descending":
		return Descending, true
	case "ignore":
		return Ignore, true
	}
	return Ascending, false
}

type Field struct {
	Name    string
	Doc     string
	Type    Schema
	Default *Default
	Order   Order
	Aliases []string

	position int
}

// Position is the index of the field within its record.
func (f *Field) Position() int {
	return f.position
}

type Record struct {
	Name    Name
	Aliases []string
	Doc     string

	fields []*Field
	lookup map[string]int
}

func NewRecord(name Name, fields ...*Field) (*Record, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	r := &Record{Name: name}
	if err := r.SetFields(fields); err != nil {
		return nil, err
	}
	return r, nil
}

func (*Record) Kind() Kind { return KindRecord }
func (*Record) isSchema()  {}

func (r *Record) Fields() []*Field {
	return r.fields
}

// SetFields replaces the record's fields, assigning positions and
// rebuilding the name lookup.
func (r *Record) SetFields(fields []*Field) error {
	lookup := make(map[string]int, len(fields))
	for ii, field := range fields {
		if !ValidName(field.Name) {
			return fmt.Errorf("invalid field name %q", field.Name)
		}
		if _, dup := lookup[field.Name]; dup {
			return fmt.Errorf(
				"duplicate field %q in record %q",
				field.Name, r.Name.Fullname(),
			)
		}
		lookup[field.Name] = ii
	}
	for ii, field := range fields {
		field.position = ii
	}
	r.fields = slices.Clone(fields)
	r.lookup = lookup
	return nil
}

func (r *Record) Field(name string) (*Field, bool) {
	ii, ok := r.lookup[name]
	if !ok {
		return nil, false
	}
	return r.fields[ii], true
}

func (r *Record) SetAliases(aliases []string) error {
	if err := checkAliases(aliases); err != nil {
		return err
	}
	r.Aliases = aliases
	return nil
}

type Enum struct {
	Name    Name
	Aliases []string
	Doc     string
	Symbols []string
}

func NewEnum(name Name, symbols []string) (*Enum, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(symbols))
	for _, symbol := range symbols {
		if !ValidName(symbol) {
			return nil, fmt.Errorf("invalid enum symbol %q", symbol)
		}
		if _, dup := seen[symbol]; dup {
			return nil, fmt.Errorf(
				"duplicate symbol %q in enum %q",
				symbol, name.Fullname(),
			)
		}
		seen[symbol] = struct{}{}
	}
	return &Enum{
		Name:    name,
		Symbols: symbols,
	}, nil
}

func (*Enum) Kind() Kind { return KindEnum }
func (*Enum) isSchema()  {}

func (e *Enum) SetAliases(aliases []string) error {
	if err := checkAliases(aliases); err != nil {
		return err
	}
	e.Aliases = aliases
	return nil
}

type Fixed struct {
	Name    Name
	Aliases []string
	Doc     string
	Size    int
}

func NewFixed(name Name, size int) (*Fixed, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, fmt.Errorf("fixed size must be positive, got %d", size)
	}
	return &Fixed{
		Name: name,
		Size: size,
	}, nil
}

func (*Fixed) Kind() Kind { return KindFixed }
func (*Fixed) isSchema()  {}

func (f *Fixed) SetAliases(aliases []string) error {
	if err := checkAliases(aliases); err != nil {
		return err
	}
	f.Aliases = aliases
	return nil
}

// NamedType returns the name of a record, enum, fixed or reference.
func NamedType(s Schema) (Name, bool) {
	switch s := s.(type) {
	case *Record:
		return s.Name, true
	case *Enum:
		return s.Name, true
	case *Fixed:
		return s.Name, true
	case *Ref:
		return s.Name, true
	}
	return Name{}, false
}

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
)

type Kind uint8

const (
	KindNull Kind = iota
	KindBoolean
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindBytes
	KindString
	KindArray
	KindMap
	KindUnion
	KindRecord
	KindEnum
	KindFixed
	KindDecimal
	KindUuid
	KindDate
	KindTimeMillis
	KindTimeMicros
	KindTimestampMillis
	KindTimestampMicros
	KindDuration
	KindRef
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindBytes:
		return "bytes"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindUnion:
		return "union"
	case KindRecord:
		return "record"
	case KindEnum:
		return "enum"
	case KindFixed:
		return "fixed"
	case KindDecimal:
		return "decimal"
	case KindUuid:
		return "uuid"
	case KindDate:
		return "date"
	case KindTimeMillis:
		return "time-millis"
	case KindTimeMicros:
		return "time-micros"
	case KindTimestampMillis:
		return "timestamp-millis"
	case KindTimestampMicros:
		return "timestamp-micros"
	case KindDuration:
		return "duration"
	case KindRef:
		return "ref"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// IsNamed reports whether schemas of this kind are identified by a name
// rather than by their kind alone.
func (k Kind) IsNamed() bool {
	switch k {
	case KindRecord, KindEnum, KindFixed, KindRef:
		return true
	}
	return false
}

// Schema is one node of the schema tree. The concrete type is one of
// Builtin, *Array, *Map, *Union, *Record, *Enum, *Fixed, *Decimal or *Ref.
type Schema interface {
	Kind() Kind
	isSchema()
}

// Builtin is a schema without parameters: a primitive type or one of the
// parameterless logical types.
type Builtin Kind

const (
	Null            = Builtin(KindNull)
	Boolean         = Builtin(KindBoolean)
	Int             = Builtin(KindInt)
	Long            = Builtin(KindLong)
	Float           = Builtin(KindFloat)
	Double          = Builtin(KindDouble)
	Bytes           = Builtin(KindBytes)
	String          = Builtin(KindString)
	Uuid            = Builtin(KindUuid)
	Date            = Builtin(KindDate)
	TimeMillis      = Builtin(KindTimeMillis)
	TimeMicros      = Builtin(KindTimeMicros)
	TimestampMillis = Builtin(KindTimestampMillis)
	TimestampMicros = Builtin(KindTimestampMicros)
	Duration        = Builtin(KindDuration)
)

func (b Builtin) Kind() Kind { return Kind(b) }

func (Builtin) isSchema() {}

func (b Builtin) String() string { return Kind(b).String() }

// IsLogical reports whether the builtin annotates a primitive with an
// interpretation (uuid, date, times, timestamps, duration).
func (b Builtin) IsLogical() bool {
	switch Kind(b) {
	case KindUuid, KindDate, KindTimeMillis, KindTimeMicros,
		KindTimestampMillis, KindTimestampMicros, KindDuration:
		return true
	}
	return false
}

type Array struct {
	Items Schema
}

func NewArray(items Schema) *Array {
	return &Array{Items: items}
}

func (*Array) Kind() Kind { return KindArray }
func (*Array) isSchema()  {}

type Map struct {
	Values Schema
}

func NewMap(values Schema) *Map {
	return &Map{Values: values}
}

func (*Map) Kind() Kind { return KindMap }
func (*Map) isSchema()  {}

// Decimal is an arbitrary-precision number stored in Inner (bytes unless
// declared otherwise).
type Decimal struct {
	Precision int
	Scale     int
	Inner     Schema
}

func NewDecimal(precision, scale int, inner Schema) (*Decimal, error) {
	if precision <= 0 {
		return nil, fmt.Errorf("decimal precision must be positive, got %d", precision)
	}
	if scale < 0 {
		return nil, fmt.Errorf("decimal scale must not be negative, got %d", scale)
	}
	if scale > precision {
		return nil, fmt.Errorf(
			"decimal scale (%d) must not exceed precision (%d)",
			scale, precision,
		)
	}
	if inner == nil {
		inner = Bytes
	}
	return &Decimal{
		Precision: precision,
		Scale:     scale,
		Inner:     inner,
	}, nil
}

func (*Decimal) Kind() Kind { return KindDecimal }
func (*Decimal) isSchema()  {}

// Ref names a record, enum or fixed declared elsewhere. It is never
// resolved to the declaration it points at.
type Ref struct {
	Name Name
}

func (*Ref) Kind() Kind { return KindRef }
func (*Ref) isSchema()  {}

// Base returns the primitive that a logical builtin annotates. Duration
// annotates a 12-byte fixed and has no primitive base.
func (b Builtin) Base() (Builtin, bool) {
	switch Kind(b) {
	case KindUuid:
		return String, true
	case KindDate, KindTimeMillis:
		return Int, true
	case KindTimeMicros, KindTimestampMillis, KindTimestampMicros:
		return Long, true
	case KindDuration:
		return 0, false
	}
	return b, true
}

// DurationFixed is the fixed schema underlying the duration logical type.
func DurationFixed() *Fixed {
	return &Fixed{
		Name: Name{Name: "duration"},
		Size: 12,
	}
}

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
	"errors"
	"fmt"
)

var (
	ErrEmptyUnion  = errors.New("union must contain at least one variant")
	ErrNestedUnion = errors.New("union may not directly contain another union")
)

type DuplicateVariantError struct {
	Kind Kind
}

func (err *DuplicateVariantError) Error() string {
	return fmt.Sprintf("union contains more than one %q variant", err.Kind)
}

type Union struct {
	variants []Schema

	// Position of each unnamed variant, keyed by kind. Named variants are
	// not indexed.
	variantIndex map[Kind]int
}

func NewUnion(variants ...Schema) (*Union, error) {
	if len(variants) == 0 {
		return nil, ErrEmptyUnion
	}
	index := make(map[Kind]int, len(variants))
	for ii, variant := range variants {
		kind := variant.Kind()
		if kind == KindUnion {
			return nil, ErrNestedUnion
		}
		if kind.IsNamed() {
			continue
		}
		if _, dup := index[kind]; dup {
			return nil, &DuplicateVariantError{Kind: kind}
		}
		index[kind] = ii
	}
	return &Union{
		variants:     variants,
		variantIndex: index,
	}, nil
}

func (*Union) Kind() Kind { return KindUnion }
func (*Union) isSchema()  {}

func (u *Union) Variants() []Schema {
	return u.variants
}

// Variant returns the position of the unnamed variant of the given kind.
func (u *Union) Variant(kind Kind) (int, bool) {
	ii, ok := u.variantIndex[kind]
	return ii, ok
}

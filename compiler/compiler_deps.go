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

package compiler

import (
	"maps"
	"slices"

	"go.avrokit.dev/avrokit/schema"
	"go.avrokit.dev/avrokit/syntax"
)

// SchemaSet holds the named types of other documents, so that a document
// may refer to them without warnings.
type SchemaSet struct {
	decls map[string] /* full name */ *mergedDecl
}

type mergedDecl struct {
	value    schema.Schema
	conflict bool
}

// Names returns the full names in the set, sorted. Names with conflicting
// definitions are included.
func (s *SchemaSet) Names() []string {
	return slices.Sorted(maps.Keys(s.decls))
}

// Lookup returns the declaration of a full name, unless it is absent or
// was declared more than once with different definitions.
func (s *SchemaSet) Lookup(fullname string) (schema.Schema, bool) {
	decl, ok := s.decls[fullname]
	if !ok || decl.conflict {
		return nil, false
	}
	return decl.value, true
}

func (s *SchemaSet) resolveType(fullname string, useSpan syntax.Span) (schema.Schema, *Error) {
	decl, ok := s.decls[fullname]
	if !ok {
		return nil, nil
	}
	if decl.conflict {
		return nil, errDependencyConflict(fullname, useSpan)
	}
	return decl.value, nil
}

func canUnifyMergedDecls(a, b *mergedDecl) bool {
	if a.conflict || b.conflict {
		return false
	}
	if a.value.Kind() != b.value.Kind() {
		return false
	}
	return schema.Equal(a.value, b.value)
}

// Merge collects the named types declared by several documents. The same
// name may be declared by more than one document if every definition has
// the same canonical form.
func Merge(protocols []*syntax.Protocol) *SchemaSet {
	decls := make(map[string]*mergedDecl)
	for _, protocol := range protocols {
		for _, s := range protocol.Schemas {
			name, ok := schema.NamedType(s)
			if !ok {
				continue
			}
			decl := &mergedDecl{value: s}
			key := name.Fullname()
			if prev, conflict := decls[key]; conflict {
				if !canUnifyMergedDecls(decl, prev) {
					decls[key] = &mergedDecl{
						conflict: true,
					}
				}
				continue
			}
			decls[key] = decl
		}
	}
	return &SchemaSet{
		decls: decls,
	}
}

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

// Package compiler checks a parsed document as a whole: named types must be
// unique, aliases must not collide, and references to named types are
// resolved against the document and its dependencies.
package compiler

import (
	"slices"

	"go.avrokit.dev/avrokit/schema"
	"go.avrokit.dev/avrokit/syntax"
)

type CompileOption interface {
	apply(*CompileOptions)
}

type compileOption func(*CompileOptions)

func (f compileOption) apply(opts *CompileOptions) { f(opts) }

type CompileOptions struct {
	deps *SchemaSet
}

func WithDependencies(dependencies *SchemaSet) CompileOption {
	return compileOption(func(opts *CompileOptions) {
		opts.deps = dependencies
	})
}

// CompileResult holds the document's named types in declaration order, or
// the errors that prevented compilation.
type CompileResult struct {
	Schemas []schema.Schema

	Errors   []*Error
	Warnings []*Warning
}

// Compile checks a parsed document. References that resolve are rewritten
// in place to the full name of their target.
func Compile(protocol *syntax.Protocol, opts ...CompileOption) CompileResult {
	return NewCompileOptions(opts...).Compile(protocol)
}

func NewCompileOptions(opts ...CompileOption) *CompileOptions {
	compileOptions := &CompileOptions{}
	for _, opt := range opts {
		opt.apply(compileOptions)
	}
	return compileOptions
}

func (opts *CompileOptions) Compile(protocol *syntax.Protocol) CompileResult {
	c := compiler{
		opts:     opts,
		protocol: protocol,
	}
	c.registerDecls()
	c.registerAliases()
	c.resolveRefs()
	if len(c.errors) > 0 {
		return CompileResult{
			Errors:   c.errors,
			Warnings: c.warnings,
		}
	}
	return CompileResult{
		Schemas:  protocol.Schemas,
		Warnings: c.warnings,
	}
}

type compiler struct {
	opts     *CompileOptions
	protocol *syntax.Protocol
	errors   []*Error
	warnings []*Warning

	// Set by registerDecls()
	decls       []*declInfo
	declsByName map[string]*declInfo
}

type declInfo struct {
	value schema.Schema
	name  schema.Name
	index int
}

func (c *compiler) registerDecls() {
	c.declsByName = make(map[string]*declInfo, len(c.protocol.Schemas))
	for ii, s := range c.protocol.Schemas {
		name, ok := schema.NamedType(s)
		if !ok {
			continue
		}
		fullname := name.Fullname()
		if _, dup := c.declsByName[fullname]; dup {
			c.errors = append(c.errors, errDuplicateType(fullname, c.protocol.Span(s)))
			continue
		}
		decl := &declInfo{
			value: s,
			name:  name,
			index: ii,
		}
		c.declsByName[fullname] = decl
		c.decls = append(c.decls, decl)
	}
}

// An alias without a namespace takes the namespace of the type that
// declares it.
func (c *compiler) registerAliases() {
	owners := make(map[string]string)
	for _, decl := range c.decls {
		owner := decl.name.Fullname()
		span := c.protocol.Span(decl.value)
		for _, alias := range aliasesOf(decl.value) {
			aliasName := schema.ParseName(alias)
			if aliasName.Namespace == "" {
				aliasName.Namespace = decl.name.Namespace
			}
			fullname := aliasName.Fullname()
			if other, ok := c.declsByName[fullname]; ok && other != decl {
				c.errors = append(c.errors, errAliasConflict(alias, owner, fullname, span))
				continue
			}
			if prev, ok := owners[fullname]; ok && prev != owner {
				c.errors = append(c.errors, errAliasConflict(alias, owner, prev, span))
				continue
			}
			owners[fullname] = owner
		}
	}
}

func aliasesOf(s schema.Schema) []string {
	switch s := s.(type) {
	case *schema.Record:
		return s.Aliases
	case *schema.Enum:
		return s.Aliases
	case *schema.Fixed:
		return s.Aliases
	}
	return nil
}

func (c *compiler) resolveRefs() {
	for _, decl := range c.decls {
		c.walkType(decl, decl.value)
	}
}

func (c *compiler) walkType(user *declInfo, s schema.Schema) {
	switch s := s.(type) {
	case *schema.Record:
		for _, field := range s.Fields() {
			c.walkType(user, field.Type)
		}
	case *schema.Array:
		c.walkType(user, s.Items)
	case *schema.Map:
		c.walkType(user, s.Values)
	case *schema.Union:
		for _, variant := range s.Variants() {
			c.walkType(user, variant)
		}
	case *schema.Ref:
		c.resolveRef(user, s)
	}
}

func (c *compiler) resolveRef(user *declInfo, ref *schema.Ref) {
	span := c.protocol.Span(ref)
	for _, candidate := range refCandidates(ref.Name, user.name.Namespace, c.protocol.Namespace) {
		fullname := candidate.Fullname()
		if decl, ok := c.declsByName[fullname]; ok {
			if decl.index > user.index {
				c.warnings = append(c.warnings, warnForwardRef(
					fullname,
					user.name.Fullname(),
					span,
				))
			}
			ref.Name = candidate
			return
		}
		if c.opts.deps == nil {
			continue
		}
		found, err := c.opts.deps.resolveType(fullname, span)
		if err != nil {
			c.errors = append(c.errors, err)
			return
		}
		if found != nil {
			ref.Name = candidate
			return
		}
	}
	c.warnings = append(c.warnings, warnUnresolvedRef(ref.Name.Fullname(), span))
}

// refCandidates lists the full names an unqualified reference may mean, most
// specific first: the namespace of the declaration that contains it, the
// protocol namespace, then no namespace.
func refCandidates(name schema.Name, enclosing, protocol string) []schema.Name {
	if name.Namespace != "" {
		return []schema.Name{name}
	}
	candidates := make([]schema.Name, 0, 3)
	for _, ns := range []string{enclosing, protocol, ""} {
		candidate := schema.Name{Name: name.Name, Namespace: ns}
		if !slices.Contains(candidates, candidate) {
			candidates = append(candidates, candidate)
		}
	}
	return candidates
}

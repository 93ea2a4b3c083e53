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
	"strings"
)

type Name struct {
	Name      string
	Namespace string
}

// ParseName splits a possibly dotted full name into its namespace and
// name parts.
func ParseName(fullname string) Name {
	if ii := strings.LastIndexByte(fullname, '.'); ii >= 0 {
		return Name{
			Name:      fullname[ii+1:],
			Namespace: fullname[:ii],
		}
	}
	return Name{Name: fullname}
}

func (n Name) Fullname() string {
	if n.Namespace == "" {
		return n.Name
	}
	return n.Namespace + "." + n.Name
}

func (n Name) String() string {
	return n.Fullname()
}

// ValidName reports whether s is a legal name or enum symbol: it starts
// with [A-Za-z_] and subsequently contains only [A-Za-z0-9_].
func ValidName(s string) bool {
	if s == "" {
		return false
	}
	for ii := 0; ii < len(s); ii++ {
		c := s[ii]
		switch {
		case c == '_', c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
			if ii == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// ValidNamespace reports whether s is a dot-separated sequence of legal
// names. The empty namespace is valid.
func ValidNamespace(s string) bool {
	if s == "" {
		return true
	}
	for _, part := range strings.Split(s, ".") {
		if !ValidName(part) {
			return false
		}
	}
	return true
}

// ValidAlias reports whether s is a legal alias: a name, optionally
// qualified by a namespace.
func ValidAlias(s string) bool {
	return s != "" && ValidNamespace(s)
}

func checkName(n Name) error {
	if !ValidName(n.Name) {
		return fmt.Errorf("invalid name %q", n.Name)
	}
	if !ValidNamespace(n.Namespace) {
		return fmt.Errorf("invalid namespace %q", n.Namespace)
	}
	return nil
}

func checkAliases(aliases []string) error {
	for _, alias := range aliases {
		if !ValidAlias(alias) {
			return fmt.Errorf("invalid alias %q", alias)
		}
	}
	return nil
}

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

package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"go.avrokit.dev/avrokit/syntax"
)

// expandInputs resolves glob patterns such as "schemas/**/*.avdl". Paths
// without glob syntax are kept even if they don't exist, so that reading
// them reports the error. Each file appears once, in first-seen order.
func expandInputs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			out = append(out, path)
		}
	}
	for _, pattern := range patterns {
		if !doublestar.ValidatePathPattern(pattern) {
			return nil, fmt.Errorf("invalid input pattern %q", pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			if _, err := os.Lstat(pattern); err != nil && hasMeta(pattern) {
				return nil, fmt.Errorf("no files match %q", pattern)
			}
			add(pattern)
			continue
		}
		for _, match := range matches {
			add(match)
		}
	}
	return out, nil
}

func hasMeta(pattern string) bool {
	for ii := 0; ii < len(pattern); ii++ {
		switch pattern[ii] {
		case '*', '?', '[', '{', '\\':
			return true
		}
	}
	return false
}

type sourceFile struct {
	path     string
	src      []byte
	parsed   *syntax.Result[*syntax.Protocol]
	parseErr error
}

// readSources reads and parses every input concurrently. A file that fails
// to parse is kept with its error; a file that can't be read aborts.
func readSources(ctx context.Context, paths []string, opts ...syntax.ParseOption) ([]*sourceFile, error) {
	files := make([]*sourceFile, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for ii, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			file := &sourceFile{path: path, src: src}
			parsed, err := syntax.Parse(src, opts...)
			if err != nil {
				file.parseErr = err
			} else {
				file.parsed = parsed
			}
			files[ii] = file
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

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
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"go.avrokit.dev/avrokit"
	"go.avrokit.dev/avrokit/encoding/avsc"
	"go.avrokit.dev/avrokit/schema"
	"go.avrokit.dev/avrokit/syntax"
)

// convertOne converts a single file with every declaration kept, printing
// its diagnostics. It returns nil if the file could not be converted.
func convertOne(env *cmdEnv, path string, opts ...avrokit.ConvertOption) *avrokit.ConvertResult {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(env.stderr, err)
		return nil
	}
	if ns := env.config.Parse.Namespace; ns != "" {
		opts = append(opts, avrokit.WithParseOptions(syntax.DefaultNamespace(ns)))
	}
	opts = append(opts, avrokit.AllDeclarations(true), avrokit.Indent("", ""))

	diags := newDiagPrinter(env.stderr)
	result, err := avrokit.Convert(src, opts...)
	if result != nil {
		for _, w := range result.Warnings {
			diags.warning(path, src, w)
		}
	}
	if err != nil {
		diags.error(path, src, err)
		return nil
	}
	return result
}

type cmdCanonical struct{}

func (*cmdCanonical) help() *commandHelp {
	return &commandHelp{
		usage:   "canonical IDL_FILE",
		summary: "Print the Parsing Canonical Form of each declaration",
	}
}

func (*cmdCanonical) flags(flags *pflag.FlagSet) {}

func (*cmdCanonical) run(ctx context.Context, env *cmdEnv, argv []string) int {
	if len(argv) != 1 {
		fmt.Fprintln(env.stderr, "usage: avrokit canonical IDL_FILE")
		return 1
	}
	result := convertOne(env, argv[0])
	if result == nil {
		return 1
	}
	for _, doc := range result.Documents {
		fmt.Fprintln(env.stdout, schema.CanonicalForm(doc.Schema))
	}
	return 0
}

type cmdFingerprint struct {
	algo string
}

func (*cmdFingerprint) help() *commandHelp {
	return &commandHelp{
		usage:   "fingerprint IDL_FILE",
		summary: "Print the fingerprint of each declaration",
	}
}

func (cmd *cmdFingerprint) flags(flags *pflag.FlagSet) {
	flags.StringVar(&cmd.algo, "algo", string(avsc.CRC64), "fingerprint algorithm: crc64, md5 or sha256")
}

func (cmd *cmdFingerprint) run(ctx context.Context, env *cmdEnv, argv []string) int {
	if len(argv) != 1 {
		fmt.Fprintln(env.stderr, "usage: avrokit fingerprint [--algo=ALGO] IDL_FILE")
		return 1
	}
	algo, err := avsc.ParseAlgorithm(cmd.algo)
	if err != nil {
		fmt.Fprintln(env.stderr, err)
		return 1
	}
	result := convertOne(env, argv[0])
	if result == nil {
		return 1
	}

	docs := make([][]byte, 0, len(result.Documents))
	for _, doc := range result.Documents {
		data, err := avsc.Marshal(doc.Schema, avsc.StringBytes())
		if err != nil {
			fmt.Fprintln(env.stderr, err)
			return 1
		}
		docs = append(docs, data)
	}
	fingerprints, err := avsc.Fingerprints(docs, algo)
	if err != nil {
		newDiagPrinter(env.stderr).error(argv[0], nil, err)
		return 1
	}
	for ii, doc := range result.Documents {
		fmt.Fprintf(env.stdout, "%s  %s\n", hex.EncodeToString(fingerprints[ii]), doc.Name.Fullname())
	}
	return 0
}

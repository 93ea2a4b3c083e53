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
	"path/filepath"

	"github.com/spf13/pflag"

	"go.avrokit.dev/avrokit"
	"go.avrokit.dev/avrokit/compiler"
	"go.avrokit.dev/avrokit/encoding/avsc"
	"go.avrokit.dev/avrokit/schema"
	"go.avrokit.dev/avrokit/syntax"
)

type cmdConvert struct {
	outDir    string
	all       bool
	verify    bool
	namespace string
}

func (*cmdConvert) help() *commandHelp {
	return &commandHelp{
		usage:   "convert schema IDL_FILE...",
		summary: "Write one .avsc document per record declared in the IDL files",
		configFlags: map[string]string{
			"output":    "output.dir",
			"all":       "output.all",
			"verify":    "verify",
			"namespace": "parse.namespace",
		},
	}
}

func (cmd *cmdConvert) flags(flags *pflag.FlagSet) {
	flags.StringVarP(&cmd.outDir, "output", "o", ".", "directory to write .avsc documents to")
	flags.BoolVar(&cmd.all, "all", false, "also write enum and fixed declarations")
	flags.BoolVar(&cmd.verify, "verify", false, "check the documents with an independent Avro parser")
	flags.StringVar(&cmd.namespace, "namespace", "", "namespace of declarations that don't set one")
}

type convertedFile struct {
	*sourceFile
	result *avrokit.ConvertResult
	err    error
}

func (cmd *cmdConvert) run(ctx context.Context, env *cmdEnv, argv []string) int {
	if len(argv) < 2 {
		fmt.Fprintln(env.stderr, "usage: avrokit convert schema IDL_FILE...")
		return 1
	}
	if argv[0] != "schema" {
		fmt.Fprintf(env.stderr, "Unsupported conversion target %q (expected \"schema\")\n", argv[0])
		return 1
	}
	cfg := env.config

	paths, err := expandInputs(argv[1:])
	if err != nil {
		fmt.Fprintln(env.stderr, err)
		return 1
	}

	var parseOpts []syntax.ParseOption
	if cfg.Parse.Namespace != "" {
		parseOpts = append(parseOpts, syntax.DefaultNamespace(cfg.Parse.Namespace))
	}
	sources, err := readSources(ctx, paths, parseOpts...)
	if err != nil {
		fmt.Fprintln(env.stderr, err)
		return 1
	}

	// Every input may refer to the named types of every other input.
	var protocols []*syntax.Protocol
	for _, file := range sources {
		if file.parsed != nil {
			protocols = append(protocols, file.parsed.Value)
		}
	}
	convertOpts := avrokit.NewConvertOptions(
		avrokit.WithDependencies(compiler.Merge(protocols)),
		avrokit.AllDeclarations(cfg.Output.All),
		avrokit.Indent("", cfg.Output.Indent),
	)

	// Inputs were parsed concurrently. Compiling one input rewrites its
	// references while the others read it as a dependency, so conversion
	// runs in order and verification waits until every input is compiled.
	converted := make([]*convertedFile, len(sources))
	for ii, file := range sources {
		converted[ii] = &convertedFile{sourceFile: file}
		if file.parseErr != nil {
			converted[ii].err = file.parseErr
			continue
		}
		converted[ii].result, converted[ii].err = convertOpts.ConvertParsed(file.parsed)
	}

	diags := newDiagPrinter(env.stderr)
	failed := false
	written := make(map[string]string)
	var outputs []*avrokit.Document
	for _, file := range converted {
		if file.result != nil {
			for _, w := range file.result.Warnings {
				diags.warning(file.path, file.src, w)
			}
		}
		if file.err != nil {
			diags.error(file.path, file.src, file.err)
			failed = true
			continue
		}
		for _, doc := range file.result.Documents {
			if prev, ok := written[doc.FileName]; ok {
				diags.error(file.path, file.src, fmt.Errorf(
					"%s would overwrite the document written for %s",
					doc.FileName, prev,
				))
				failed = true
				continue
			}
			written[doc.FileName] = doc.Name.Fullname()
			outputs = append(outputs, doc)
		}
	}
	if failed {
		return 1
	}
	if cfg.Verify {
		if err := verifyConverted(converted); err != nil {
			fmt.Fprintln(env.stderr, err)
			return 1
		}
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0o777); err != nil {
		fmt.Fprintln(env.stderr, err)
		return 1
	}
	for _, doc := range outputs {
		outPath := filepath.Join(cfg.Output.Dir, doc.FileName)
		if err := os.WriteFile(outPath, append(doc.JSON, '\n'), 0o666); err != nil {
			fmt.Fprintln(env.stderr, err)
			return 1
		}
		env.log.Info("wrote schema", "name", doc.Name.Fullname(), "path", outPath)
	}
	env.log.Debug("conversion finished", "inputs", len(sources), "documents", len(outputs))
	return 0
}

// verifyConverted checks every declaration of every input as one set, so
// that references between inputs resolve.
func verifyConverted(converted []*convertedFile) error {
	seen := make(map[string]bool)
	var docs [][]byte
	for _, file := range converted {
		for _, s := range file.result.Protocol.Schemas {
			name, ok := schema.NamedType(s)
			if !ok || seen[name.Fullname()] {
				continue
			}
			seen[name.Fullname()] = true
			doc, err := avsc.Marshal(s, avsc.StringBytes())
			if err != nil {
				return fmt.Errorf("%s: %w", file.path, err)
			}
			docs = append(docs, doc)
		}
	}
	return avsc.Verify(docs...)
}

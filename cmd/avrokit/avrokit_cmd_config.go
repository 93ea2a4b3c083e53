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
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

type cmdConfig struct {
	force bool
}

func (*cmdConfig) help() *commandHelp {
	return &commandHelp{
		usage:   "config init [PATH]",
		summary: "Write a config file holding the default settings",
	}
}

func (cmd *cmdConfig) flags(flags *pflag.FlagSet) {
	flags.BoolVar(&cmd.force, "force", false, "overwrite an existing file")
}

func (cmd *cmdConfig) run(ctx context.Context, env *cmdEnv, argv []string) int {
	if len(argv) < 1 || len(argv) > 2 || argv[0] != "init" {
		fmt.Fprintln(env.stderr, "usage: avrokit config init [PATH]")
		return 1
	}
	path := defaultConfigName + ".yaml"
	if len(argv) == 2 {
		path = argv[1]
	}

	data, err := yaml.Marshal(defaultConfig())
	if err != nil {
		fmt.Fprintln(env.stderr, err)
		return 1
	}

	openFlags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !cmd.force {
		openFlags |= os.O_EXCL
	}
	fp, err := os.OpenFile(path, openFlags, 0o666)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			fmt.Fprintf(env.stderr, "%s already exists (use --force to overwrite)\n", path)
		} else {
			fmt.Fprintln(env.stderr, err)
		}
		return 1
	}
	_, writeErr := fp.Write(data)
	closeErr := fp.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		fmt.Fprintln(env.stderr, err)
		return 1
	}
	env.log.Info("wrote config", "path", path)
	return 0
}

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
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.avrokit.dev/avrokit"
)

type command interface {
	help() *commandHelp
	flags(flags *pflag.FlagSet)
	run(ctx context.Context, env *cmdEnv, argv []string) int
}

type commandHelp struct {
	usage   string
	summary string

	// configFlags maps flag names to the config keys they override.
	configFlags map[string]string
}

// cmdEnv is what a command sees of the process it runs in.
type cmdEnv struct {
	config *config
	log    *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

func main() {
	os.Exit(runMain(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func runMain(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	exitCode := 0
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "avrokit [options] COMMAND",
		Short:   "Convert Avro IDL to Avro JSON schemas",
		Version: avrokit.Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetArgs(append([]string{}, args...))
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		fmt.Fprint(stderr, rootCmd.UsageString())
		exitCode = 1
		return nil
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default .avrokit.yaml)")

	commands := []command{
		&cmdConvert{},
		&cmdCanonical{},
		&cmdFingerprint{},
		&cmdConfig{},
	}
	for _, cmd := range commands {
		help := cmd.help()
		cobraCmd := &cobra.Command{
			Use:   help.usage,
			Short: help.summary,
		}
		cobraCmd.RunE = func(c *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath, c.Flags(), help.configFlags)
			if err != nil {
				fmt.Fprintln(stderr, err)
				exitCode = 1
				return nil
			}
			logger, err := newLogger(stderr, cfg.Log.Level)
			if err != nil {
				fmt.Fprintln(stderr, err)
				exitCode = 1
				return nil
			}
			env := &cmdEnv{
				config: cfg,
				log:    logger,
				stdout: stdout,
				stderr: stderr,
			}
			exitCode = cmd.run(ctx, env, args)
			return nil
		}
		cmd.flags(cobraCmd.Flags())
		rootCmd.AddCommand(cobraCmd)
	}

	if _, err := rootCmd.ExecuteC(); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return exitCode
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

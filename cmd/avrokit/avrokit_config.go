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
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const defaultConfigName = ".avrokit"

type config struct {
	Output outputConfig `mapstructure:"output" yaml:"output"`
	Parse  parseConfig  `mapstructure:"parse" yaml:"parse"`
	Verify bool         `mapstructure:"verify" yaml:"verify"`
	Log    logConfig    `mapstructure:"log" yaml:"log"`
}

type outputConfig struct {
	Dir    string `mapstructure:"dir" yaml:"dir"`
	Indent string `mapstructure:"indent" yaml:"indent"`

	// All writes enum and fixed declarations too, not only records.
	All bool `mapstructure:"all" yaml:"all"`
}

type parseConfig struct {
	Namespace string `mapstructure:"namespace" yaml:"namespace"`
}

type logConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

func defaultConfig() *config {
	return &config{
		Output: outputConfig{
			Dir:    ".",
			Indent: "  ",
		},
		Log: logConfig{
			Level: "warn",
		},
	}
}

// loadConfig layers, lowest first: defaults, the config file, AVROKIT_*
// environment variables, then flags set on the command line.
func loadConfig(path string, flags *pflag.FlagSet, flagKeys map[string]string) (*config, error) {
	v := viper.New()

	defaults := defaultConfig()
	v.SetDefault("output.dir", defaults.Output.Dir)
	v.SetDefault("output.indent", defaults.Output.Indent)
	v.SetDefault("output.all", defaults.Output.All)
	v.SetDefault("parse.namespace", defaults.Parse.Namespace)
	v.SetDefault("verify", defaults.Verify)
	v.SetDefault("log.level", defaults.Log.Level)

	v.SetEnvPrefix("AVROKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for flagName, key := range flagKeys {
		if flag := flags.Lookup(flagName); flag != nil {
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, err
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(defaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/npillmayer/lalr/lr/engine"
)

// Config holds the settings of lalrcalc.
type Config struct {
	Trace          string `toml:"trace"`
	RequiredTokens int    `toml:"required_tokens"`
	StackIncrement int    `toml:"stack_increment"`
	Prompt         string `toml:"prompt"`
	History        string `toml:"history"`
}

// DefaultConfig returns the settings used without a configuration file.
func DefaultConfig() Config {
	return Config{
		Trace:  "Error",
		Prompt: "calc> ",
	}
}

// LoadConfig reads a TOML configuration file. Settings missing from the file
// keep their defaults, unknown settings are an error.
func LoadConfig(path string) (Config, error) {
	conf := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		return conf, fmt.Errorf("cannot open config file: %w", err)
	}
	defer f.Close()
	md, err := toml.NewDecoder(f).Decode(&conf)
	if err != nil {
		return conf, fmt.Errorf("config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return conf, fmt.Errorf("config file %s: unknown settings %s", path, strings.Join(keys, ", "))
	}
	if conf.RequiredTokens < 0 || conf.StackIncrement < 0 {
		return conf, fmt.Errorf("config file %s: negative values for required_tokens or stack_increment", path)
	}
	return conf, nil
}

// parserOptions returns the parser options the settings call for.
func (c Config) parserOptions() []engine.Option {
	var opts []engine.Option
	if c.RequiredTokens > 0 {
		opts = append(opts, engine.WithRequiredTokens(c.RequiredTokens))
	}
	if c.StackIncrement > 0 {
		opts = append(opts, engine.WithStackIncrement(c.StackIncrement))
	}
	return opts
}

// Package config reads the iogen.toml project file.
//
// A missing default file is not an error: every key has a default. Flags
// given on the command line override file values.
//
//	specs    = ["schema"]
//	output   = "src/codecs.ts"
//	database = ".iogen/history.db"
//	record   = true
//	header   = ["import * as t from 'io-ts'"]
//
//	[emit]
//	static  = true
//	runtime = true
//
//	[serve]
//	addr = ":8080"
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/roach88/iogen/internal/printer"
)

// DefaultFile is the project file looked up when no path is given.
const DefaultFile = "iogen.toml"

// Config is the project configuration.
type Config struct {
	Specs    []string `toml:"specs"`
	Output   string   `toml:"output"`
	Database string   `toml:"database"`
	Record   bool     `toml:"record"`
	Header   []string `toml:"header"`
	Emit     Emit     `toml:"emit"`
	Serve    Serve    `toml:"serve"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
}

// Emit selects the printers.
type Emit struct {
	Static  bool `toml:"static"`
	Runtime bool `toml:"runtime"`
}

// Serve configures the playground server.
type Serve struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Specs:    []string{"."},
		Database: ".iogen/history.db",
		Header:   append([]string(nil), printer.DefaultHeader...),
		Emit:     Emit{Static: true, Runtime: true},
		Serve:    Serve{Addr: ":8080"},
	}
}

// Load reads the configuration at path. An empty path reads DefaultFile
// when it exists and falls back to Default otherwise.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("config: %w", err)
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values no command can use.
func (c Config) Validate() error {
	if len(c.Specs) == 0 {
		return errors.New("specs must name at least one file or directory")
	}
	for _, s := range c.Specs {
		if strings.TrimSpace(s) == "" {
			return errors.New("specs must not contain empty paths")
		}
	}
	if !c.Emit.Static && !c.Emit.Runtime {
		return errors.New("emit: at least one of static or runtime must be true")
	}
	if c.Record && c.Database == "" {
		return errors.New("record requires a database path")
	}
	return nil
}

// PrinterOptions converts the configuration into document options.
func (c Config) PrinterOptions() printer.Options {
	return printer.Options{
		Header:  c.Header,
		Static:  c.Emit.Static,
		Runtime: c.Emit.Runtime,
	}
}

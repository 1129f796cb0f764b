// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package symconfig

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/vstjam/wine-symbolize/pkg/config"
	"github.com/vstjam/wine-symbolize/pkg/symbolizer"
)

const (
	DefaultImage     = "debug/vsttest1.dll"
	DefaultToolchain = "i686-w64-mingw32.static.posix-"
)

func LoadData(data []byte) (*Config, error) {
	cfg := DefaultValues()
	if err := config.LoadData(data, cfg); err != nil {
		return nil, err
	}
	if err := Complete(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads a JSON or YAML config on top of the default values.
func LoadFile(filename string) (*Config, error) {
	cfg, err := LoadPartialFile(filename)
	if err != nil {
		return nil, err
	}
	if err := Complete(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadPartialFile loads the config without completing it, so that it can be amended with flags.
func LoadPartialFile(filename string) (*Config, error) {
	cfg := DefaultValues()
	if err := config.LoadFile(filename, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func DefaultValues() *Config {
	return &Config{
		Image:     DefaultImage,
		Toolchain: DefaultToolchain,
		Demangle:  true,
	}
}

func Complete(cfg *Config) error {
	if cfg.Image == "" {
		return fmt.Errorf("config param image is empty")
	}
	if cfg.Module == "" {
		base := filepath.Base(cfg.Image)
		cfg.Module = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if strings.ContainsAny(cfg.Module, " \t") {
		return fmt.Errorf("bad config param module %q: must not contain spaces", cfg.Module)
	}
	if cfg.Objdump == "" {
		cfg.Objdump = cfg.Toolchain + "objdump"
	}
	if cfg.Addr2Line == "" {
		cfg.Addr2Line = cfg.Toolchain + "addr2line"
	}
	cfg.Timeout = 0
	if cfg.RawTimeout != "" {
		timeout, err := time.ParseDuration(cfg.RawTimeout)
		if err != nil {
			return fmt.Errorf("bad config param timeout: %w", err)
		}
		if timeout < 0 {
			return fmt.Errorf("bad config param timeout %q: must not be negative", cfg.RawTimeout)
		}
		cfg.Timeout = timeout
	}
	return nil
}

// Backend returns the binutils backend described by a completed config.
func (cfg *Config) Backend() *symbolizer.Binutils {
	return &symbolizer.Binutils{
		Objdump:   cfg.Objdump,
		Addr2Line: cfg.Addr2Line,
		Demangle:  cfg.Demangle,
		Inlines:   cfg.Inlines,
		Timeout:   cfg.Timeout,
	}
}

// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package symconfig describes configuration of the backtrace symbolizer.
package symconfig

import "time"

type Config struct {
	// Debug image of the module, a PE file with DWARF info (e.g. "debug/vsttest1.dll").
	Image string `json:"image" yaml:"image"`
	// Module name used for the image in debugger backtraces
	// (if not set defaults to the image file name without extension).
	Module string `json:"module,omitempty" yaml:"module,omitempty"`
	// Binutils prefix of the cross toolchain that built the image
	// (e.g. "i686-w64-mingw32.static.posix-" for MXE builds).
	Toolchain string `json:"toolchain" yaml:"toolchain"`
	// Objdump binary (if not set defaults to toolchain + "objdump").
	Objdump string `json:"objdump,omitempty" yaml:"objdump,omitempty"`
	// Addr2line binary (if not set defaults to toolchain + "addr2line").
	Addr2Line string `json:"addr2line,omitempty" yaml:"addr2line,omitempty"`
	// Demangle C++ function names (enabled by default).
	Demangle bool `json:"demangle" yaml:"demangle"`
	// Show functions inlined at the address.
	Inlines bool `json:"inlines,omitempty" yaml:"inlines,omitempty"`
	// Copy lines that can't be parsed or resolved unchanged instead of failing.
	KeepGoing bool `json:"keep_going,omitempty" yaml:"keep_going,omitempty"`
	// Timeout for each objdump/addr2line invocation, e.g. "30s" (no timeout by default).
	RawTimeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// Parsed RawTimeout.
	Timeout time.Duration `json:"-" yaml:"-"`
}

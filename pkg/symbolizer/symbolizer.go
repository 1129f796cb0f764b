// Copyright 2016 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package symbolizer maps runtime program counters of a module loaded by Wine
// to functions and source lines in the module's PE debug image.
package symbolizer

import (
	"fmt"
	"strings"

	"github.com/vstjam/wine-symbolize/pkg/log"
)

// Frame is one function of a resolved address, as reported by addr2line.
type Frame struct {
	Func   string
	File   string
	Line   int
	Inline bool
}

func (f Frame) String() string {
	if f.Func == unknownFunc && f.File == unknownFile && f.Line == 0 {
		return "?? ??:0"
	}
	line := "?"
	if f.Line != 0 {
		line = fmt.Sprint(f.Line)
	}
	return fmt.Sprintf("%v at %v:%v", f.Func, f.File, line)
}

// Symbol is a resolved static address.
// Frames are ordered from the innermost inlined function outwards.
type Symbol struct {
	Addr   uint64
	Frames []Frame
}

// String formats the symbol the way addr2line -p does followed by the static address.
func (s *Symbol) String() string {
	parts := make([]string, len(s.Frames))
	for i, frame := range s.Frames {
		parts[i] = frame.String()
	}
	return fmt.Sprintf("%v (0x%x)", strings.Join(parts, " (inlined by) "), s.Addr)
}

// Backend runs the external binary inspection tools.
type Backend interface {
	// ImageMetadata returns header information of the debug image.
	ImageMetadata(image string) (*ImageMetadata, error)
	// Resolve returns frames for the static address addr in the debug image.
	Resolve(image string, addr uint64) ([]Frame, error)
}

// Symbolizer resolves runtime addresses of a single module.
type Symbolizer struct {
	backend  Backend
	image    string
	module   string
	mmapBase uint64
	meta     *ImageMetadata
}

// New loads the image metadata of image once.
// module is the module name debugger backtraces use for image, mmapBase is its runtime load address.
func New(backend Backend, image, module string, mmapBase uint64) (*Symbolizer, error) {
	meta, err := backend.ImageMetadata(image)
	if err != nil {
		return nil, err
	}
	log.Logf(1, "%v: image base 0x%x (%v-bit), mmap base 0x%x", image, meta.ImageBase, meta.Bits, mmapBase)
	return &Symbolizer{
		backend:  backend,
		image:    image,
		module:   module,
		mmapBase: mmapBase,
		meta:     meta,
	}, nil
}

// Module returns the module name backtraces use for the image.
func (s *Symbolizer) Module() string {
	return s.module
}

// ImageBase returns the preferred load address from the image header.
func (s *Symbolizer) ImageBase() uint64 {
	return s.meta.ImageBase
}

// StaticAddr translates a runtime pc into the debug image address space.
func (s *Symbolizer) StaticAddr(pc uint64) uint64 {
	return s.meta.Translate(pc, s.mmapBase)
}

// Resolve symbolizes the runtime pc.
func (s *Symbolizer) Resolve(pc uint64) (*Symbol, error) {
	addr := s.StaticAddr(pc)
	frames, err := s.backend.Resolve(s.image, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve 0x%x (static 0x%x): %w", pc, addr, err)
	}
	log.Logf(2, "resolved 0x%x -> 0x%x: %+v", pc, addr, frames)
	return &Symbol{Addr: addr, Frames: frames}, nil
}

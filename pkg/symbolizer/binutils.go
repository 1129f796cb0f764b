// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package symbolizer

import (
	"fmt"
	"time"

	"github.com/vstjam/wine-symbolize/pkg/log"
	"github.com/vstjam/wine-symbolize/pkg/osutil"
)

// Binutils is a Backend that runs objdump and addr2line.
type Binutils struct {
	Objdump   string
	Addr2Line string
	// Demangle asks addr2line for demangled names and demangles leftovers in process.
	Demangle bool
	// Inlines asks addr2line to unwind inlined functions.
	Inlines bool
	// Timeout for each tool invocation, 0 means no timeout.
	Timeout time.Duration
}

func (b *Binutils) ImageMetadata(image string) (*ImageMetadata, error) {
	out, err := b.run(b.Objdump, "-p", image)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoImageBase, err)
	}
	return ParseImageMetadata(out)
}

func (b *Binutils) Resolve(image string, addr uint64) ([]Frame, error) {
	args := []string{"-p", "-f", "-s"}
	if b.Demangle {
		args = append(args, "-C")
	}
	if b.Inlines {
		args = append(args, "-i")
	}
	args = append(args, "--exe="+image, fmt.Sprintf("0x%x", addr))
	out, err := b.run(b.Addr2Line, args...)
	if err != nil {
		return nil, err
	}
	frames, err := parseAddr2Line(out, b.Demangle)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", b.Addr2Line, err)
	}
	return frames, nil
}

func (b *Binutils) run(bin string, args ...string) ([]byte, error) {
	log.Logf(3, "running %v %q", bin, args)
	cmd := osutil.Command(bin, args...)
	cmd.Stderr = log.VerboseWriter(1)
	out, err := osutil.RunStdout(b.Timeout, cmd)
	if err != nil {
		return nil, osutil.PrependContext(bin, err)
	}
	return out, nil
}

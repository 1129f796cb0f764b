// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package symbolizer

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoImageBase is returned when the image base of the debug image can't be determined.
var ErrNoImageBase = errors.New("unable to determine ImageBase")

// ImageMetadata describes the PE header fields of a debug image as printed by objdump -p.
type ImageMetadata struct {
	// ImageBase is the preferred load address declared by the image.
	ImageBase uint64
	// Bits is the address width, 32 for PE32 and 64 for PE32+ images.
	Bits int
}

// ParseImageMetadata extracts image metadata from objdump -p output:
//
//	Magic			010b	(PE32)
//	...
//	ImageBase		6b800000
func ParseImageMetadata(output []byte) (*ImageMetadata, error) {
	meta := &ImageMetadata{Bits: 64}
	found := false
	s := bufio.NewScanner(bytes.NewReader(output))
	for s.Scan() {
		line := s.Text()
		fields := strings.Fields(line)
		switch {
		case strings.HasPrefix(line, "Magic") && len(fields) >= 3:
			switch fields[2] {
			case "(PE32)":
				meta.Bits = 32
			case "(PE32+)":
				meta.Bits = 64
			}
		case strings.HasPrefix(line, "ImageBase") && !found:
			if len(fields) != 2 {
				return nil, fmt.Errorf("%w: malformed line %q", ErrNoImageBase, line)
			}
			base, err := parseHex(fields[1])
			if err != nil {
				return nil, fmt.Errorf("%w: malformed line %q: %w", ErrNoImageBase, line, err)
			}
			meta.ImageBase = base
			found = true
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: no ImageBase line in image headers", ErrNoImageBase)
	}
	return meta, nil
}

// Translate converts a runtime pc of a module mapped at mmapBase into the static address
// in the image, truncated to the image address width.
func (meta *ImageMetadata) Translate(pc, mmapBase uint64) uint64 {
	addr := Translate(pc, mmapBase, meta.ImageBase)
	if meta.Bits == 32 {
		addr &= 1<<32 - 1
	}
	return addr
}

// Translate returns pc - mmapBase + imageBase using modular 64-bit arithmetic.
func Translate(pc, mmapBase, imageBase uint64) uint64 {
	return pc - mmapBase + imageBase
}

// ParseAddress parses a hexadecimal address that must carry the 0x prefix.
func ParseAddress(s string) (uint64, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return 0, fmt.Errorf("address %q must be a 0x-prefixed hexadecimal number", s)
	}
	addr, err := strconv.ParseUint(s[2:], 16, 64)
	if err != nil {
		return 0, fmt.Errorf("bad address %q: %w", s, err)
	}
	return addr, nil
}

func parseHex(s string) (uint64, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	return strconv.ParseUint(s, 16, 64)
}

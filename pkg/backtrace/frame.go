// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package backtrace parses winedbg backtraces and rewrites frames of one module with resolved symbols.
package backtrace

import (
	"fmt"
	"strings"

	"github.com/vstjam/wine-symbolize/pkg/symbolizer"
)

// Frame is a single unsymbolized winedbg backtrace line:
//
//	9 0x4007c8bf in vsttest1 (+0xd9c8be) (0x0b05f720)
type Frame struct {
	Index  string
	PC     uint64
	Module string
	// Offset of PC from the module load address, as printed by winedbg.
	Offset string
	// Frame pointer, as printed by winedbg.
	Addr string
	// Raw is the line exactly as it was read, without the line terminator.
	Raw string
}

const frameFields = 6

// ParseError describes a backtrace line that does not look like a frame.
type ParseError struct {
	LineNo int
	Line   string
	Reason string
}

func (err *ParseError) Error() string {
	return fmt.Sprintf("line %v: %v: %q", err.LineNo, err.Reason, err.Line)
}

// FrameModule returns the module of a backtrace line.
// Only the number of fields is checked, so frames already symbolized by winedbg
// (e.g. "0 0x7bc5c2d5 RtlRaiseException+0x35() in ntdll (0x0032f6b8)") are accepted.
// The returned error is a *ParseError with LineNo unset.
func FrameModule(line string) (string, error) {
	fields, err := splitFrame(line)
	if err != nil {
		return "", err
	}
	return fields[3], nil
}

// ParseFrame parses an unsymbolized backtrace line.
// The returned error is a *ParseError with LineNo unset.
func ParseFrame(line string) (*Frame, error) {
	fields, err := splitFrame(line)
	if err != nil {
		return nil, err
	}
	if fields[2] != "in" {
		return nil, &ParseError{Line: line, Reason: fmt.Sprintf("want \"in\" before module, got %q", fields[2])}
	}
	pc, err := symbolizer.ParseAddress(fields[1])
	if err != nil {
		return nil, &ParseError{Line: line, Reason: fmt.Sprintf("bad pc %q", fields[1])}
	}
	return &Frame{
		Index:  fields[0],
		PC:     pc,
		Module: fields[3],
		Offset: strings.TrimSuffix(strings.TrimPrefix(fields[4], "("), ")"),
		Addr:   strings.TrimSuffix(strings.TrimPrefix(fields[5], "("), ")"),
		Raw:    line,
	}, nil
}

func splitFrame(line string) ([]string, error) {
	fields := strings.Fields(line)
	if len(fields) != frameFields {
		return nil, &ParseError{
			Line:   line,
			Reason: fmt.Sprintf("want %v fields, got %v", frameFields, len(fields)),
		}
	}
	return fields, nil
}

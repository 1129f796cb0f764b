// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package symbolizer

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ianlancetaylor/demangle"
)

const (
	unknownFunc = "??"
	unknownFile = "??"
	inlinedBy   = "(inlined by) "
)

var discriminatorRe = regexp.MustCompile(` \(discriminator \d+\)$`)

// parseAddr2Line parses pretty-printed addr2line output (-p -f -s [-i]):
//
//	Ticker::tick() at Ticker.cpp:42 (discriminator 2)
//	 (inlined by) Metronome::process(float*, int) at Metronome.cpp:17
//
// The first frame is the innermost one.
func parseAddr2Line(output []byte, demangleNames bool) ([]Frame, error) {
	var frames []Frame
	s := bufio.NewScanner(bytes.NewReader(output))
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		inline := false
		if strings.HasPrefix(line, inlinedBy) {
			if len(frames) == 0 {
				return nil, fmt.Errorf("inlined frame without a caller: %q", line)
			}
			inline = true
			line = strings.TrimPrefix(line, inlinedBy)
		}
		frame, err := parseFrame(line)
		if err != nil {
			return nil, err
		}
		if demangleNames {
			frame.Func = demangleName(frame.Func)
		}
		if inline {
			// addr2line lists the innermost function first, so everything
			// above an "(inlined by)" line was inlined into it.
			frames[len(frames)-1].Inline = true
		}
		frames = append(frames, frame)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("empty addr2line output")
	}
	return frames, nil
}

func parseFrame(line string) (Frame, error) {
	line = discriminatorRe.ReplaceAllString(line, "")
	fn, loc := unknownFunc, line
	if pos := strings.LastIndex(line, " at "); pos != -1 {
		fn, loc = line[:pos], line[pos+len(" at "):]
	} else if rest, ok := strings.CutPrefix(line, unknownFunc+" "); ok {
		loc = rest
	} else {
		return Frame{}, fmt.Errorf("failed to parse addr2line output %q", line)
	}
	colon := strings.LastIndexByte(loc, ':')
	if colon == -1 {
		return Frame{}, fmt.Errorf("failed to parse addr2line location %q", line)
	}
	frame := Frame{
		Func: fn,
		File: loc[:colon],
	}
	if ln := loc[colon+1:]; ln != "?" {
		n, err := strconv.Atoi(ln)
		if err != nil {
			return Frame{}, fmt.Errorf("failed to parse line number in %q: %w", line, err)
		}
		frame.Line = n
	}
	return frame, nil
}

// demangleName demangles Itanium C++ names that addr2line left mangled.
// 32-bit mingw images prefix symbols with an extra underscore.
func demangleName(name string) string {
	switch {
	case strings.HasPrefix(name, "__Z"):
		if res := demangle.Filter(name[1:]); res != name[1:] {
			return res
		}
	case strings.HasPrefix(name, "_Z"):
		return demangle.Filter(name)
	}
	return name
}

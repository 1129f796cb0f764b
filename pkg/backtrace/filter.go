// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package backtrace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vstjam/wine-symbolize/pkg/log"
	"github.com/vstjam/wine-symbolize/pkg/symbolizer"
)

// Resolver symbolizes runtime addresses of one module.
type Resolver interface {
	Module() string
	Resolve(pc uint64) (*symbolizer.Symbol, error)
}

// Filter copies a backtrace from input to output, replacing frames of the resolver's module with symbols.
// Frames of other modules are copied unchanged, only their number of fields is checked.
type Filter struct {
	Resolver Resolver
	// KeepGoing copies malformed lines and lines that fail to resolve unchanged instead of failing.
	KeepGoing bool
}

// Stats counts backtrace lines by what Run did with them.
type Stats struct {
	Lines    int
	Resolved int
	Passed   int
	Failed   int
}

// Run processes input line by line until EOF.
func (f *Filter) Run(input io.Reader, output io.Writer) (Stats, error) {
	var stats Stats
	r := bufio.NewReader(input)
	for {
		line, err := r.ReadString('\n')
		if line != "" {
			stats.Lines++
			if err := f.processLine(stats.Lines, line, output, &stats); err != nil {
				return stats, err
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("failed to read backtrace: %w", err)
		}
	}
	log.Logf(1, "processed %v lines: %v resolved, %v passed through, %v failed",
		stats.Lines, stats.Resolved, stats.Passed, stats.Failed)
	return stats, nil
}

func (f *Filter) processLine(lineNo int, line string, output io.Writer, stats *Stats) error {
	line = strings.TrimSuffix(line, "\n")
	module, err := FrameModule(line)
	if err != nil {
		return f.malformed(lineNo, line, err, output, stats)
	}
	if module != f.Resolver.Module() {
		stats.Passed++
		return writeLine(output, line)
	}
	frame, err := ParseFrame(line)
	if err != nil {
		return f.malformed(lineNo, line, err, output, stats)
	}
	sym, err := f.Resolver.Resolve(frame.PC)
	if err != nil {
		err = fmt.Errorf("line %v: %w", lineNo, err)
		if !f.KeepGoing {
			return err
		}
		log.Logf(0, "%v", err)
		stats.Failed++
		return writeLine(output, line)
	}
	stats.Resolved++
	return writeLine(output, fmt.Sprintf("%v %v", frame.Index, sym))
}

func (f *Filter) malformed(lineNo int, line string, err error, output io.Writer, stats *Stats) error {
	var perr *ParseError
	if errors.As(err, &perr) {
		perr.LineNo = lineNo
	}
	if !f.KeepGoing {
		return err
	}
	log.Logf(0, "skipping malformed backtrace %v", err)
	stats.Failed++
	return writeLine(output, line)
}

func writeLine(output io.Writer, line string) error {
	if _, err := io.WriteString(output, line+"\n"); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

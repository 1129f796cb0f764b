// Copyright 2020 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package tool

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/vstjam/wine-symbolize/pkg/log"
)

// profiler writes -cpuprofile/-memprofile output of a single tool run.
type profiler struct {
	cpuFile *os.File
	memPath string
}

func startProfiling(cpuprof, memprof string) (*profiler, error) {
	p := &profiler{memPath: memprof}
	if cpuprof == "" {
		return p, nil
	}
	f, err := os.Create(cpuprof)
	if err != nil {
		return nil, fmt.Errorf("failed to create cpuprofile file: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to start cpu profile: %w", err)
	}
	p.cpuFile = f
	return p, nil
}

func (p *profiler) stop() error {
	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		if err := p.cpuFile.Close(); err != nil {
			return err
		}
		log.Logf(1, "wrote cpu profile to %v", p.cpuFile.Name())
	}
	if p.memPath == "" {
		return nil
	}
	f, err := os.Create(p.memPath)
	if err != nil {
		return fmt.Errorf("failed to create memprofile file: %w", err)
	}
	defer f.Close()
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("failed to write mem profile: %w", err)
	}
	log.Logf(1, "wrote mem profile to %v", p.memPath)
	return nil
}

// Copyright 2020 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package tool contains various helper utilitites useful for implementation of command line tools.
package tool

import (
	"flag"
	"fmt"
	"os"

	"github.com/vstjam/wine-symbolize/pkg/log"
)

// Init parses the command line with flag.CommandLine and installs profiling.
// The returned function must be called before the tool exits.
func Init() func() {
	return InitArgs(flag.CommandLine, os.Args[1:])
}

// InitArgs is like Init, but for an arbitrary flag set and arguments.
func InitArgs(flags *flag.FlagSet, args []string) func() {
	cpuprof := flags.String("cpuprofile", "", "write CPU profile to this file")
	memprof := flags.String("memprofile", "", "write memory profile to this file")
	if err := flags.Parse(args); err != nil {
		Fail(err)
	}
	prof, err := startProfiling(*cpuprof, *memprof)
	if err != nil {
		Fail(err)
	}
	return func() {
		if err := prof.stop(); err != nil {
			Fail(err)
		}
	}
}

func Failf(msg string, args ...interface{}) {
	if out := log.CachedLogOutput(); out != "" && log.V(1) {
		fmt.Fprintf(os.Stderr, "recent log output:\n%s", out)
	}
	fmt.Fprintf(os.Stderr, msg+"\n", args...)
	os.Exit(1)
}

func Fail(err error) {
	Failf("%v", err)
}

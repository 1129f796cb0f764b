// Copyright 2016 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// wine-symbolize resolves frames of a winedbg backtrace that belong to one module
// using objdump and addr2line of the toolchain that built the module:
//
//	$ wine-symbolize 0x32000000 < winedbg.backtrace
//	$ wine-symbolize 0x32000000 0x4007c8bf
//
// The mmap base is the load address of the module in the debugged process
// (use 'info share' in winedbg).
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vstjam/wine-symbolize/pkg/backtrace"
	"github.com/vstjam/wine-symbolize/pkg/log"
	"github.com/vstjam/wine-symbolize/pkg/symbolizer"
	"github.com/vstjam/wine-symbolize/pkg/symconfig"
	"github.com/vstjam/wine-symbolize/pkg/tool"
)

var (
	flagConfig    = flag.String("config", "", "JSON or YAML config file")
	flagImage     = flag.String("image", symconfig.DefaultImage, "debug image of the module")
	flagModule    = flag.String("module", "", "module name in the backtrace (defaults to image name)")
	flagToolchain = flag.String("toolchain", symconfig.DefaultToolchain, "binutils prefix")
	flagObjdump   = flag.String("objdump", "", "objdump binary (defaults to toolchain objdump)")
	flagAddr2Line = flag.String("addr2line", "", "addr2line binary (defaults to toolchain addr2line)")
	flagDemangle  = flag.Bool("demangle", true, "demangle C++ function names")
	flagInlines   = flag.Bool("inlines", false, "show inlined functions")
	flagKeepGoing = flag.Bool("keep_going", false, "copy lines that fail to parse or resolve unchanged")
	flagTimeout   = flag.Duration("timeout", 0, "timeout for each binutils invocation (0 means none)")
	flagInput     = flag.String("input", "", "backtrace file, .xz files are decompressed (defaults to stdin)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: wine-symbolize [flags] mmap_base [address] < winedbg.backtrace\n")
		flag.PrintDefaults()
	}
	defer tool.Init()()
	log.EnableLogCaching(100, 1<<20)
	if flag.NArg() < 1 || flag.NArg() > 2 {
		flag.Usage()
		os.Exit(1)
	}
	cfg, err := loadConfig()
	if err != nil {
		tool.Fail(err)
	}
	input, err := backtrace.OpenInput(*flagInput)
	if err != nil {
		tool.Fail(err)
	}
	defer input.Close()
	if err := run(cfg, flag.Args(), input, os.Stdout); err != nil {
		if errors.Is(err, symbolizer.ErrNoImageBase) {
			log.Logf(0, "%v", err)
			tool.Failf("unable to determine ImageBase")
		}
		tool.Fail(err)
	}
}

// loadConfig applies flags given on the command line on top of the config file.
func loadConfig() (*symconfig.Config, error) {
	cfg := symconfig.DefaultValues()
	if *flagConfig != "" {
		var err error
		if cfg, err = symconfig.LoadPartialFile(*flagConfig); err != nil {
			return nil, err
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "image":
			cfg.Image = *flagImage
		case "module":
			cfg.Module = *flagModule
		case "toolchain":
			cfg.Toolchain = *flagToolchain
		case "objdump":
			cfg.Objdump = *flagObjdump
		case "addr2line":
			cfg.Addr2Line = *flagAddr2Line
		case "demangle":
			cfg.Demangle = *flagDemangle
		case "inlines":
			cfg.Inlines = *flagInlines
		case "keep_going":
			cfg.KeepGoing = *flagKeepGoing
		case "timeout":
			cfg.RawTimeout = flagTimeout.String()
		}
	})
	if err := symconfig.Complete(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(cfg *symconfig.Config, args []string, input io.Reader, output io.Writer) error {
	mmapBase, err := symbolizer.ParseAddress(args[0])
	if err != nil {
		return fmt.Errorf("bad mmap base: %w", err)
	}
	var pc uint64
	if len(args) == 2 {
		if pc, err = symbolizer.ParseAddress(args[1]); err != nil {
			return err
		}
	}
	symb, err := symbolizer.New(cfg.Backend(), cfg.Image, cfg.Module, mmapBase)
	if err != nil {
		return err
	}
	if len(args) == 2 {
		sym, err := symb.Resolve(pc)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(output, "%v\n", sym)
		return err
	}
	filter := &backtrace.Filter{
		Resolver:  symb,
		KeepGoing: cfg.KeepGoing,
	}
	start := time.Now()
	stats, err := filter.Run(input, output)
	log.Logf(1, "symbolized %v frames in %v", stats.Resolved, time.Since(start))
	return err
}

// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package backtrace

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"
)

// OpenInput opens a backtrace log file. Empty name or "-" means stdin.
// Files with .xz extension are decompressed on the fly.
func OpenInput(name string) (io.ReadCloser, error) {
	if name == "" || name == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open backtrace: %w", err)
	}
	if !strings.HasSuffix(name, ".xz") {
		return f, nil
	}
	r, err := xz.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decompress %v: %w", name, err)
	}
	return &xzFile{Reader: r, f: f}, nil
}

type xzFile struct {
	*xz.Reader
	f *os.File
}

func (xf *xzFile) Close() error {
	return xf.f.Close()
}

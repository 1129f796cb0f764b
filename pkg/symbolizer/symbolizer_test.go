// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package symbolizer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	meta     *ImageMetadata
	metaErr  error
	symbols  map[uint64][]Frame
	images   []string
	resolved []uint64
}

func (b *fakeBackend) ImageMetadata(image string) (*ImageMetadata, error) {
	b.images = append(b.images, image)
	return b.meta, b.metaErr
}

func (b *fakeBackend) Resolve(image string, addr uint64) ([]Frame, error) {
	b.resolved = append(b.resolved, addr)
	frames, ok := b.symbols[addr]
	if !ok {
		return nil, errors.New("addr2line: exit status 1")
	}
	return frames, nil
}

func TestSymbolizerResolve(t *testing.T) {
	backend := &fakeBackend{
		meta: &ImageMetadata{ImageBase: 0x6b800000, Bits: 32},
		symbols: map[uint64][]Frame{
			0x7987c8bf: {{Func: "Ticker::tick()", File: "Ticker.cpp", Line: 42}},
		},
	}
	s, err := New(backend, "debug/vsttest1.dll", "vsttest1", 0x32000000)
	require.NoError(t, err)
	assert.Equal(t, []string{"debug/vsttest1.dll"}, backend.images)
	assert.Equal(t, "vsttest1", s.Module())
	assert.Equal(t, uint64(0x6b800000), s.ImageBase())

	sym, err := s.Resolve(0x4007c8bf)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x7987c8bf), sym.Addr)
	assert.Equal(t, "Ticker::tick() at Ticker.cpp:42 (0x7987c8bf)", sym.String())

	_, err = s.Resolve(0x40000000)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to resolve 0x40000000 (static 0x79800000)")

	// Image metadata is loaded once.
	assert.Len(t, backend.images, 1)
	assert.Equal(t, []uint64{0x7987c8bf, 0x79800000}, backend.resolved)
}

func TestSymbolizerNoImageBase(t *testing.T) {
	backend := &fakeBackend{metaErr: ErrNoImageBase}
	_, err := New(backend, "debug/vsttest1.dll", "vsttest1", 0x32000000)
	assert.True(t, errors.Is(err, ErrNoImageBase))
}

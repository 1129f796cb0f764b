// Copyright 2016 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package log

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func init() {
	EnableLogCaching(4, 20)
}

func TestCaching(t *testing.T) {
	tests := []struct{ str, want string }{
		{"", ""},
		{"a", "a\n"},
		{"bb", "a\nbb\n"},
		{"ccc", "a\nbb\nccc\n"},
		{"dddd", "a\nbb\nccc\ndddd\n"},
		{"eeeee", "bb\nccc\ndddd\neeeee\n"},
		{"ffffff", "ccc\ndddd\neeeee\nffffff\n"},
		{"ggggggg", "eeeee\nffffff\nggggggg\n"},
		{"hhhhhhhh", "ggggggg\nhhhhhhhh\n"},
		{"jjjjjjjjjjjjjjjjjjjjjjjjj", "jjjjjjjjjjjjjjjjjjjjjjjjj\n"},
	}
	prependTime = false
	SetOutput(new(bytes.Buffer))
	defer SetOutput(nil)
	for _, test := range tests {
		Logf(1, "%s", test.str)
		out := CachedLogOutput()
		if out != test.want {
			t.Fatalf("wrote: %v\nwant: %v\ngot: %v", test.str, test.want, out)
		}
	}
}

func TestVerbosity(t *testing.T) {
	buf := new(bytes.Buffer)
	SetOutput(buf)
	defer SetOutput(nil)
	SetVerbosity(1)
	defer SetVerbosity(0)

	assert.True(t, V(1))
	assert.False(t, V(2))
	Logf(1, "visible %v", 1)
	Logf(2, "hidden %v", 2)
	assert.Contains(t, buf.String(), "visible 1")
	assert.NotContains(t, buf.String(), "hidden 2")
}

func TestVerboseWriter(t *testing.T) {
	buf := new(bytes.Buffer)
	SetOutput(buf)
	defer SetOutput(nil)

	w := VerboseWriter(0)
	data := []byte("first\n\nsecond\n")
	n, err := fmt.Fprintf(w, "%s", data)
	assert.NoError(t, err)
	assert.Equal(t, len(data), n)
	assert.Contains(t, buf.String(), "first\n")
	assert.Contains(t, buf.String(), "second\n")
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("\n")))
}

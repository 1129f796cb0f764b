// Copyright 2016 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package config

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vstjam/wine-symbolize/pkg/osutil"
)

type Nested struct {
	Aaa int    `json:"aaa" yaml:"aaa"`
	Bbb string `json:"bbb" yaml:"bbb"`
}

type Config struct {
	Foo int      `json:"foo" yaml:"foo"`
	Bar string   `json:"bar" yaml:"bar"`
	Qux []string `json:"qux" yaml:"qux"`
	Box *Nested  `json:"box" yaml:"box"`
}

func TestLoad(t *testing.T) {
	tests := []struct {
		input  string
		output Config
		err    bool
	}{
		{
			input:  `{"foo": 42}`,
			output: Config{Foo: 42},
		},
		{
			input: `
# Image to symbolize.
{
	"bar": "debug/vsttest1.dll",
	# Nested comment.
	"qux": ["aaa", "bbb"]
}`,
			output: Config{Bar: "debug/vsttest1.dll", Qux: []string{"aaa", "bbb"}},
		},
		{
			input:  `{"foo": 1, "box": {"aaa": 12, "bbb": "bbb"}}`,
			output: Config{Foo: 1, Box: &Nested{Aaa: 12, Bbb: "bbb"}},
		},
		{
			input: `{"foobar": 42}`,
			err:   true,
		},
		{
			input: `{"box": {"aaa": 12, "ccc": "bbb"}}`,
			err:   true,
		},
		{
			input: `{"foo": "not a number"}`,
			err:   true,
		},
	}
	for i, test := range tests {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			var cfg Config
			err := LoadData([]byte(test.input), &cfg)
			if test.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(test.output, cfg); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func TestLoadYAML(t *testing.T) {
	tests := []struct {
		input  string
		output Config
		err    bool
	}{
		{
			input:  "foo: 42\n",
			output: Config{Foo: 42},
		},
		{
			input:  "# comment\nbar: vsttest1\nqux:\n  - aaa\n  - bbb\nbox:\n  aaa: 1\n",
			output: Config{Bar: "vsttest1", Qux: []string{"aaa", "bbb"}, Box: &Nested{Aaa: 1}},
		},
		{
			input:  "",
			output: Config{},
		},
		{
			input: "foobar: 1\n",
			err:   true,
		},
	}
	for i, test := range tests {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			var cfg Config
			err := LoadYAML([]byte(test.input), &cfg)
			if test.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(test.output, cfg); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	want := Config{Foo: 1, Bar: "bar", Box: &Nested{Aaa: 2, Bbb: "bbb"}}
	files := map[string]string{
		"cfg.json": "# Comment.\n{\"foo\": 1, \"bar\": \"bar\", \"box\": {\"aaa\": 2, \"bbb\": \"bbb\"}}\n",
		"cfg.yaml": "foo: 1\nbar: bar\nbox:\n  aaa: 2\n  bbb: bbb\n",
		"cfg.YML":  "# Comment.\nfoo: 1\nbar: bar\nbox: {aaa: 2, bbb: bbb}\n",
	}
	for name, data := range files {
		t.Run(name, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), name)
			require.NoError(t, osutil.WriteFile(file, []byte(data)))
			var got Config
			require.NoError(t, LoadFile(file, &got))
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func TestLoadFileErrors(t *testing.T) {
	var cfg Config
	assert.EqualError(t, LoadFile("", &cfg), "no config file specified")
	assert.Error(t, LoadFile(filepath.Join(t.TempDir(), "missing.json"), &cfg))
}

func TestLoadBadType(t *testing.T) {
	want := "config type is not pointer to struct"
	assert.EqualError(t, LoadData([]byte("{}"), 1), want)
	i := 0
	assert.EqualError(t, LoadData([]byte("{}"), &i), want)
	s := struct{}{}
	assert.EqualError(t, LoadYAML([]byte("{}"), s), want)
}

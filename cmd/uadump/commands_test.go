// Copyright 2021 Converter Systems LLC. All rights reserved.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gotest.tools/assert"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	err := newApp(out).Run(append([]string{"uadump"}, args...))
	return strings.TrimSpace(out.String()), err
}

func TestDecode(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"decode", "--type", "variant", "06", "2a", "00", "00", "00"}, "Int32(42)"},
		{[]string{"decode", "--type", "variant", "00"}, "Null"},
		{[]string{"decode", "--type", "nodeid", "00c8"}, "i=200"},
		{[]string{"decode", "--type", "nodeid", "01 02 89 13"}, "ns=2;i=5001"},
		{[]string{"decode", "--type", "extensionobject", "00 00 00"}, "Null"},
		{[]string{"decode", "--type", "extensionobject", "01 02 89 13 01 02 00 00 00 aa bb"}, "ns=2;i=5001 [2 bytes]"},
		{[]string{"decode", "--type", "diagnosticinfo", "00"}, "{symbolicId=-1 namespaceUri=-1 locale=-1 localizedText=-1}"},
	}
	for _, c := range cases {
		t.Run(strings.Join(c.args, " "), func(t *testing.T) {
			got, err := run(t, c.args...)
			assert.NilError(t, err)
			assert.Equal(t, got, c.want)
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	_, err := run(t, "decode", "--type", "variant", "06", "2a")
	assert.ErrorContains(t, err, "BadEndOfStream")
	_, err = run(t, "decode", "--type", "variant", "zz")
	assert.ErrorContains(t, err, "parse hex")
	_, err = run(t, "decode", "--type", "widget", "00")
	assert.ErrorContains(t, err, "BadInvalidArgument")
}

func TestDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "value.bin")
	assert.NilError(t, os.WriteFile(path, []byte{0x01, 0x01}, 0600))
	got, err := run(t, "--verbose", "decode", "--type", "variant", "--file", path)
	assert.NilError(t, err)
	assert.Equal(t, got, "Boolean(true)")
}

func TestNodeIDCommand(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"nodeid", "i=200"}, "00 c8"},
		{[]string{"nodeid", "ns=1;i=300"}, "01 01 2c 01"},
		{[]string{"nodeid", "ns=300;i=1"}, "02 2c 01 01 00 00 00"},
		{[]string{"nodeid", "--expanded", "svr=1;i=1"}, "40 01 01 00 00 00"},
	}
	for _, c := range cases {
		got, err := run(t, c.args...)
		assert.NilError(t, err)
		assert.Equal(t, got, c.want)
	}
}

func TestConfigCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.yaml")
	assert.NilError(t, os.WriteFile(path, []byte("publishing_interval: 250ms\nqueue_size: 3\n"), 0600))
	got, err := run(t, "config", path)
	assert.NilError(t, err)
	assert.Equal(t, got, "ok: 2 options")

	assert.NilError(t, os.WriteFile(path, []byte("queue_size: 0\n"), 0600))
	_, err = run(t, "config", path)
	assert.ErrorContains(t, err, "BadInvalidArgument")
}

package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if strings.TrimSpace(out.String()) != version {
		t.Fatalf("expected %q, got %q", version, out.String())
	}
}

func TestServeFlags(t *testing.T) {
	cmd := newServeCmd()
	for _, name := range []string{"config", "addr", "log-level", "log-format", "store", "read-header-timeout", "shutdown-timeout"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("missing flag --%s", name)
		}
	}
}

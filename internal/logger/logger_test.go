package logger

import (
	"bytes"
	"io"
	"os"
	"testing"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	defer SetVerbose(false)

	Info("read %d files", 3)
	Warn("%s: comments dropped", "a.jyaml")
	Debug("hidden")
	SetVerbose(true)
	Debug("shown %s", "now")

	want := "read 3 files\nwarning: a.jyaml: comments dropped\nshown now\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestLogger_Discard(t *testing.T) {
	SetOutput(io.Discard)
	defer SetOutput(os.Stderr)
	Info("nothing to see")
}

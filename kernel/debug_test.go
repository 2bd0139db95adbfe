package kernel

import (
	"bytes"
	"io"
	"os"
	"testing"
)

func captureStdout(t *testing.T, f func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() failed: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	f()

	w.Close()
	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func TestDebugLogsOnlyEnabledKeys(t *testing.T) {
	d := NewDebug(DebugLifecycle)
	out := captureStdout(t, func() {
		d.Log(DebugLifecycle, "pid %d started", 1)
		d.Log(DebugVM, "should not appear")
	})
	if !contains(out, "pid 1 started") {
		t.Fatalf("enabled key's message missing from output: %q", out)
	}
	if contains(out, "should not appear") {
		t.Fatalf("disabled key logged anyway: %q", out)
	}
}

func TestDebugDedupsRepeatedCallSite(t *testing.T) {
	d := NewDebug(DebugVM)
	logOnce := func() { d.Log(DebugVM, "fault at %d", 0xDEAD) }
	out := captureStdout(t, func() {
		for i := 0; i < 3; i++ {
			logOnce()
		}
	})
	n := 0
	for i := 0; i+len("fault at") <= len(out); i++ {
		if out[i:i+len("fault at")] == "fault at" {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("same call site logged %d times; want exactly 1 (deduped)", n)
	}
}

func contains(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}

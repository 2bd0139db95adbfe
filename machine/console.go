package machine

import "github.com/ImperishableMe/Nachos/circbuf"

/// FakeConsole implements Console over a pair of blocking ring buffers,
/// adapted from circbuf.Circbuf_t (itself adapted from biscuit's
/// circbuf/circbuf.go). In the real system this would be backed by the
/// host terminal; in this repo and its tests it is backed by an
/// in-memory ring so stdin can be scripted and stdout captured.
type FakeConsole struct {
	stdin  *circbuf.Circbuf_t
	stdout *circbuf.Circbuf_t
}

/// NewFakeConsole builds a console with bufsz-byte stdin/stdout rings.
func NewFakeConsole(bufsz int) *FakeConsole {
	c := &FakeConsole{stdin: &circbuf.Circbuf_t{}, stdout: &circbuf.Circbuf_t{}}
	c.stdin.Cb_init(bufsz)
	c.stdout.Cb_init(bufsz)
	return c
}

func (c *FakeConsole) ReadStdin(p []byte) (int, error) {
	return c.stdin.Read(p), nil
}

func (c *FakeConsole) WriteStdout(p []byte) (int, error) {
	return c.stdout.Write(p), nil
}

/// FeedStdin queues bytes for a subsequent ReadStdin, the test-side
/// half of the scripted stdin stream.
func (c *FakeConsole) FeedStdin(p []byte) {
	c.stdin.Write(p)
}

/// DrainStdout returns everything currently buffered for stdout,
/// without blocking, the test-side half of the captured output.
func (c *FakeConsole) DrainStdout() []byte {
	n := c.stdout.Used()
	if n == 0 {
		return nil
	}
	buf := make([]byte, n)
	got := c.stdout.Read(buf)
	return buf[:got]
}

package kernel

import (
	"sync"

	"github.com/ImperishableMe/Nachos/defs"
	"github.com/ImperishableMe/Nachos/invpt"
	"github.com/ImperishableMe/Nachos/limits"
	"github.com/ImperishableMe/Nachos/mem"
	"github.com/ImperishableMe/Nachos/stats"
)

/// Context is the single explicit Kernel Context threaded by reference
/// into every operation that needs it, replacing a set of ambient
/// package-level globals with one struct: alive, totalCreated,
/// rootProcess, freePool, and invertedTable all live here.
/// Context.Disable/Restore model "interrupts disabled", this kernel's
/// only mutual-exclusion primitive, as a plain mutex, the same
/// Lock_pmap/Unlock_pmap/Lockassert_pmap discipline vm.PageTable uses
/// for its own narrower critical section.
type Context struct {
	Config Config

	Pool     *mem.FramePool
	InvTable *invpt.Table // nil unless Config.Paging
	Limits   *limits.Syslimit_t
	Stats    *stats.Set
	Debug    *Debug

	mu          sync.Mutex
	held        bool
	totalCreated defs.Pid_t
	alive        int
	rootPid      defs.Pid_t

	termOnce sync.Once
	termCh   chan struct{}
}

/// NewContext builds a fresh Kernel Context from cfg. Pids are
/// assigned starting at 1, reserving 0 to mean "no root process yet".
func NewContext(cfg Config) *Context {
	c := &Context{
		Config:  cfg,
		Pool:    mem.NewFramePool(cfg.NumPhysPages),
		Limits:  limits.MkSysLimit(cfg.MaxProcs),
		Stats:   &stats.Set{},
		Debug:   NewDebug(DebugLifecycle, DebugVM),
		termCh:  make(chan struct{}),
	}
	if cfg.Paging {
		c.InvTable = invpt.NewTable(c.Pool)
	}
	return c
}

/// NewDefaultContext builds a Context sized off the host's process
/// limit (DefaultConfigFromHost), the entry point a standalone boot
/// would call instead of NewContext(DefaultConfig()).
func NewDefaultContext() *Context {
	return NewContext(DefaultConfigFromHost())
}

/// Disable acquires the context's lock, modeling "interrupts disabled"
/// for the kernel's critical sections: process construction, execute's
/// alive-count bump and thread fork, loadSections, join, killProcess,
/// and TLB miss handling.
func (c *Context) Disable() {
	c.mu.Lock()
	c.held = true
}

/// Restore releases the lock acquired by Disable.
func (c *Context) Restore() {
	c.held = false
	c.mu.Unlock()
}

/// assertHeld panics if Disable has not been called, the same
/// "caller forgot to lock" guard as vm.PageTable.Lockassert_pmap.
func (c *Context) assertHeld() {
	if !c.held {
		panic("kernel: context lock must be held")
	}
}

/// NextPid assigns and returns the next pid. Must be called with the
/// context disabled.
func (c *Context) NextPid() defs.Pid_t {
	c.assertHeld()
	c.totalCreated++
	return c.totalCreated
}

/// TotalCreated returns the number of pids assigned so far.
func (c *Context) TotalCreated() defs.Pid_t {
	c.assertHeld()
	return c.totalCreated
}

/// ElectRoot makes pid the root process if none has been elected yet,
/// reporting whether pid became root. The first process created
/// becomes the root process. Must be called with the context
/// disabled.
func (c *Context) ElectRoot(pid defs.Pid_t) bool {
	c.assertHeld()
	if c.rootPid != 0 {
		return false
	}
	c.rootPid = pid
	return true
}

/// IsRoot reports whether pid is the elected root process.
func (c *Context) IsRoot(pid defs.Pid_t) bool {
	c.assertHeld()
	return c.rootPid != 0 && c.rootPid == pid
}

/// IncAlive increments the alive count. Must be called with the
/// context disabled.
func (c *Context) IncAlive() {
	c.assertHeld()
	c.alive++
}

/// DecAlive decrements the alive count and reports whether it just
/// reached zero, the kernel-termination trigger. Panics if the count
/// would go negative: that can only mean two killProcess calls raced
/// on the same process, a kernel-fatal bug. Must be called with the
/// context disabled.
func (c *Context) DecAlive() (reachedZero bool) {
	c.assertHeld()
	c.alive--
	if c.alive < 0 {
		panic("kernel: alive count went negative")
	}
	if c.alive == 0 {
		c.termOnce.Do(func() { close(c.termCh) })
		return true
	}
	return false
}

/// Alive returns the current alive count.
func (c *Context) Alive() int {
	c.assertHeld()
	return c.alive
}

/// Terminated returns a channel closed exactly once, the instant the
/// alive count first reaches zero: kernel termination happens
/// automatically, with no separate shutdown call.
func (c *Context) Terminated() <-chan struct{} {
	return c.termCh
}

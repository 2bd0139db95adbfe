// Package stats backs the kernel's debug counters for syscalls
// dispatched, TLB misses, and process exits. Adapted from
// biscuit's stats/stats.go: Counter_t and the reflect-based
// Stats2String dump are kept; the Stats/Timing compile-time feature
// gates and Cycles_t/Rdtsc are dropped. They exist in the teacher to
// toggle real hardware TSC cycle-counting on and off, and this kernel
// runs atop a simulated processor with no meaningful cycle counter to
// read (runtime.Rdtsc is itself one of biscuit's patched-runtime hooks,
// unavailable in stock Go).
package stats

import (
	"reflect"
	"strconv"
	"strings"
	"sync/atomic"
)

/// Counter_t is an always-on statistical counter, safe for concurrent
/// Inc from multiple goroutines.
type Counter_t int64

/// Inc increments the counter by one.
func (c *Counter_t) Inc() {
	atomic.AddInt64((*int64)(c), 1)
}

/// Get reads the counter's current value.
func (c *Counter_t) Get() int64 {
	return atomic.LoadInt64((*int64)(c))
}

/// Set holds the kernel's named debug counters, the numeric half of
/// its debug output alongside the keyed log sink. Evictions is listed
/// in the dump, but no code path increments it, so it always reads 0.
type Set struct {
	Syscalls  Counter_t
	TLBMisses Counter_t
	Evictions Counter_t
	Exits     Counter_t
}

/// Stats2String renders every Counter_t field of st as a printable
/// line, the same reflect-driven dump biscuit uses so new counters
/// never need a matching hand-written formatter.
func Stats2String(st interface{}) string {
	v := reflect.ValueOf(st)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	s := ""
	for i := 0; i < v.NumField(); i++ {
		t := v.Field(i).Type().String()
		if strings.HasSuffix(t, "Counter_t") {
			n := v.Field(i).Interface().(Counter_t)
			s += "\n\t#" + v.Type().Field(i).Name + ": " + strconv.FormatInt(int64(n), 10)
		}
	}
	return s + "\n"
}

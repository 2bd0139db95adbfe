package kernel

import "golang.org/x/sys/unix"

// DefaultConfigFromHost builds a Config the same way DefaultConfig
// does, except MaxProcs is capped to the host's RLIMIT_NPROC soft
// limit when that limit is both readable and lower than the built-in
// default, a boot-time hint in the same spirit as a real kernel sizing
// its process table off a hardware-reported limit, rather than a
// fixed compile-time constant. If the limit can't be read (container
// sandboxing, an unsupported OS) this falls back to DefaultConfig()
// unchanged.
func DefaultConfigFromHost() Config {
	cfg := DefaultConfig()
	var rlim unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NPROC, &rlim); err == nil {
		if hint := int64(rlim.Cur); hint > 0 && hint < cfg.MaxProcs {
			cfg.MaxProcs = hint
		}
	}
	return cfg
}

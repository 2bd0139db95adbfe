package defs

/// D_CONSOLE is the device identifier for the console streams backing
/// fd 0 (stdin) and fd 1 (stdout). This core has no other devices:
/// sockets, raw disks, stat, and profiling devices from the teacher are
/// dropped along with the subsystems that backed them.
const D_CONSOLE int = 1

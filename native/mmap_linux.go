//go:build amd64 && linux

package native

import "golang.org/x/sys/unix"

// Clones must be within a rel32 jump of the text segment, which sits in the
// low 2GB for non-PIE binaries.
const mmapFlags = unix.MAP_32BIT

//go:build amd64 && unix && !linux

package native

// Other systems have no MAP_32BIT. We'll have to trust the OS to give us an
// address close enough to the text segment; relocate reports it if not.
const mmapFlags = 0

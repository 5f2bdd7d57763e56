//go:build amd64 && unix

package native

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	protRX  = unix.PROT_READ | unix.PROT_EXEC
	protRWX = unix.PROT_READ | unix.PROT_WRITE | unix.PROT_EXEC
)

// mprotect changes the protection of every page buf touches.
func mprotect(buf []byte, prot int) error {
	pageSize := uintptr(unix.Getpagesize())

	addr := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	start := addr &^ (pageSize - 1)
	end := (addr + uintptr(cap(buf)) + pageSize - 1) &^ (pageSize - 1)

	region := unsafe.Slice((*byte)(unsafe.Pointer(start)), end-start)
	return unix.Mprotect(region, prot)
}

//go:build amd64 && unix

package native

import "unsafe"

// The types below mirror the start of the runtime's own. Only the fields
// funcText reads are declared; everything after etext is omitted.

type funcInfo struct {
	fn    unsafe.Pointer // *runtime._func
	datap *moduledata
}

type moduledata struct {
	pcHeader     unsafe.Pointer
	funcnametab  []byte
	cutab        []uint32
	filetab      []byte
	pctab        []byte
	pclntable    []byte
	ftab         []functab
	findfunctab  uintptr
	minpc, maxpc uintptr

	text, etext uintptr
}

type functab struct {
	entryoff uint32 // relative to moduledata.text
	funcoff  uint32
}

//go:linkname findfunc runtime.findfunc
func findfunc(pc uintptr) funcInfo

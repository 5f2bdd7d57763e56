//go:build amd64 && unix

package native

import "unsafe"

// funcText returns the machine code of the function starting at entry,
// including any padding up to the next function. It returns nil if entry
// isn't the start of a known function.
func funcText(entry uintptr) []byte {
	info := findfunc(entry)
	if info.fn == nil || info.datap == nil {
		return nil
	}

	// The length is the distance to whichever function starts next.
	offset := uint32(entry - info.datap.text)
	length := uint32(info.datap.etext - entry)
	for _, ft := range info.datap.ftab {
		if ft.entryoff > offset && ft.entryoff-offset < length {
			length = ft.entryoff - offset
		}
	}

	return unsafe.Slice((*byte)(unsafe.Pointer(entry)), length)
}

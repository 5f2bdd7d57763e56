//go:build unix

package native

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"unsafe"

	"golang.org/x/arch/x86/x86asm"
)

const (
	opcodeINT3 = 0xcc
	opcodeJMP  = 0xe9 // JMP rel32

	jumpSize = 5 // 1 byte opcode + 4 byte address
)

func sliceAddr(buf []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
}

// insertJump overwrites the start of code with a jump to dest and pads the
// rest with INT3, like the compiler does between functions.
func insertJump(code []byte, dest uintptr) error {
	if len(code) < jumpSize {
		return errors.New("buffer too small for jump instruction")
	}

	rel := int64(dest) - int64(sliceAddr(code)+jumpSize)
	if rel < math.MinInt32 || rel > math.MaxInt32 {
		return fmt.Errorf("jump target out of range: %d bytes", rel)
	}

	code[0] = opcodeJMP
	binary.LittleEndian.PutUint32(code[1:], uint32(int32(rel)))

	for i := jumpSize; i < len(code); i++ {
		code[i] = opcodeINT3
	}

	return nil
}

// relocate copies machine instructions from src into dest, rewriting every
// PC-relative operand that points outside of src so it still reaches the
// same address from dest. Targets inside src move along with the code and
// are left alone.
//
// The data underlying the slices is assumed to be the same address the code
// would execute from. dest needs room for src plus up to 15 bytes of
// padding. The resized dest is returned.
func relocate(src, dest []byte) ([]byte, error) {
	srcBase := sliceAddr(src)
	destBase := sliceAddr(dest)

	// Trim INT3 padding from the end of src
	end := len(src)
	for end > 0 && src[end-1] == opcodeINT3 {
		end--
	}
	src = src[:end]

	padded := (len(src) + 0xf) &^ 0xf
	if cap(dest) < padded {
		return nil, fmt.Errorf("destination too small: %d < %d", cap(dest), padded)
	}
	dest = dest[:padded]

	srcEnd := srcBase + uintptr(len(src))

	for i := 0; i < len(src); {
		inst, err := x86asm.Decode(src[i:], 64)
		if err != nil {
			return nil, fmt.Errorf("decode error at offset %d: %w", i, err)
		}
		copy(dest[i:], src[i:i+inst.Len])

		if inst.PCRel != 0 {
			next := int64(srcBase) + int64(i+inst.Len)
			field := dest[i+inst.PCRelOff : i+inst.PCRelOff+inst.PCRel]

			var disp int64
			switch inst.PCRel {
			case 1:
				disp = int64(int8(field[0]))
			case 4:
				disp = int64(int32(binary.LittleEndian.Uint32(field)))
			default:
				return nil, fmt.Errorf("decode error at offset %d: unexpected %d byte relative address", i, inst.PCRel)
			}

			target := next + disp
			if target < int64(srcBase) || target >= int64(srcEnd) {
				newDisp := target - (int64(destBase) + int64(i+inst.Len))
				if inst.PCRel != 4 || newDisp < math.MinInt32 || newDisp > math.MaxInt32 {
					return nil, fmt.Errorf("offset %d: unable to translate relative address of %v", i, inst)
				}
				binary.LittleEndian.PutUint32(field, uint32(int32(newDisp)))
			}
		}

		i += inst.Len
	}

	for i := len(src); i < len(dest); i++ {
		dest[i] = opcodeINT3
	}

	return dest, nil
}

func disassemble(code []byte) (string, error) {
	var buf bytes.Buffer

	baseAddr := sliceAddr(code)

	for i := 0; i < len(code); {
		inst, err := x86asm.Decode(code[i:], 64)
		if err != nil {
			return "", fmt.Errorf("decode error at offset %d: %w", i, err)
		}
		fmt.Fprintf(&buf, "0x%08x\t%-20s\t%s\n", baseAddr+uintptr(i), hex.EncodeToString(code[i:i+inst.Len]), inst.String())

		i += inst.Len
	}

	return buf.String(), nil
}

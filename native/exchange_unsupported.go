//go:build !amd64 || !unix

package native

// Exchange always fails with ErrUnsupported on this platform.
func Exchange(fn, other any) error {
	if _, _, err := funcValues(fn, other); err != nil {
		return err
	}
	return ErrUnsupported
}

// Restore always fails with ErrUnsupported on this platform.
func Restore(fn any) error {
	if _, err := funcValue(fn); err != nil {
		return err
	}
	return ErrUnsupported
}

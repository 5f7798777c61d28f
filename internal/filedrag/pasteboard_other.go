//go:build !darwin || !cgo

package filedrag

func platformPasteboard() Pasteboard {
	return nil
}

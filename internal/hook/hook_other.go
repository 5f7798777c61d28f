//go:build (darwin && !cgo) || (!darwin && !windows && !linux)

package hook

type unsupportedAdapter struct{}

func newPlatformAdapter() Adapter {
	return unsupportedAdapter{}
}

func (unsupportedAdapter) Install(Handler) (Handle, error) {
	return nil, &HookError{Device: DeviceMouse, Code: -1, Err: ErrUnsupported}
}

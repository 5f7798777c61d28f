// Package hook installs process-global input hooks and normalizes the raw
// platform records they produce into event.Event values.
//
// Platform support:
//   - macOS: CGEventTap on a CFRunLoop owned by the hook thread (requires
//     Accessibility permission)
//   - Windows: WH_MOUSE_LL and WH_KEYBOARD_LL with a GetMessage pump
//   - Linux: /dev/input evdev devices (requires input group or root), with
//     absolute pointer positions queried from the X server when reachable
//
// An Adapter must be installed from a goroutine locked to its OS thread;
// that thread then blocks in Handle.Run until Handle.Interrupt is called
// from anywhere else.
package hook

import (
	"errors"
	"fmt"
)

// Decision is the handler's verdict on a raw event. Only the Windows
// adapter honours Swallow; elsewhere hooks are listen-only.
type Decision int

const (
	Pass Decision = iota
	Swallow
)

// Handler receives every raw record on the hook thread.
type Handler func(raw RawEvent) Decision

// Adapter installs a global hook for the current platform.
type Adapter interface {
	// Install installs the hook on the calling OS thread. The caller must
	// have locked the goroutine to its thread and must call Run, then
	// Uninstall, on that same thread.
	Install(handler Handler) (Handle, error)
}

// Handle is an installed hook.
type Handle interface {
	// Run pumps the platform event loop until Interrupt is called.
	Run()

	// Interrupt asks the owning thread to leave Run. Safe to call from
	// any goroutine, before or during Run.
	Interrupt()

	// Uninstall releases the OS hook. Call after Run has returned.
	Uninstall() error
}

// Device names the hook that failed to install.
type Device string

const (
	DeviceMouse Device = "mouse"
	DeviceKey   Device = "key"
)

// HookError reports a failed hook installation. The adapter never retries;
// the caller decides whether to surface the error or try again.
type HookError struct {
	Device Device
	Code   int
	Err    error
}

func (e *HookError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("install %s hook (code %d): %v", e.Device, e.Code, e.Err)
	}
	return fmt.Sprintf("install %s hook (code %d)", e.Device, e.Code)
}

func (e *HookError) Unwrap() error {
	return e.Err
}

var (
	// ErrUnsupported is returned on platforms without a hook implementation.
	ErrUnsupported = errors.New("global input hooks not supported on this platform")

	// ErrPermissionDenied is returned when the OS refuses the hook for lack of permission.
	ErrPermissionDenied = errors.New("insufficient permissions for global input hook")

	// ErrAlreadyInstalled is returned when a process-global hook is installed twice.
	ErrAlreadyInstalled = errors.New("hook already installed")

	// ErrNoDevices is returned on Linux when no readable input device exists.
	ErrNoDevices = errors.New("no readable input devices")
)

// New returns the adapter for the current platform.
func New() Adapter {
	return newPlatformAdapter()
}

//go:build windows

package hook

import (
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	whKeyboardLL = 13
	whMouseLL    = 14

	wmQuit     = 0x0012
	pmNoRemove = 0x0000
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procSetWindowsHookExW   = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procGetMessageW         = user32.NewProc("GetMessageW")
	procPeekMessageW        = user32.NewProc("PeekMessageW")
	procTranslateMessage    = user32.NewProc("TranslateMessage")
	procDispatchMessageW    = user32.NewProc("DispatchMessageW")
	procPostThreadMessageW  = user32.NewProc("PostThreadMessageW")
)

type point struct {
	X, Y int32
}

type msg struct {
	Hwnd    windows.Handle
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      point
}

type msllHookStruct struct {
	Pt          point
	MouseData   uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

type kbdllHookStruct struct {
	VkCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

// Low-level hooks are process-global and NewCallback slots are never
// released, so the two callbacks are created once and route to whichever
// handle is active.
var (
	activeHandle atomic.Pointer[win32Handle]

	callbacksOnce sync.Once
	mouseCallback uintptr
	keyCallback   uintptr
)

type win32Adapter struct{}

func newPlatformAdapter() Adapter {
	return win32Adapter{}
}

type win32Handle struct {
	handler   Handler
	threadID  uint32
	mouseHook uintptr
	keyHook   uintptr
}

func (win32Adapter) Install(handler Handler) (Handle, error) {
	callbacksOnce.Do(func() {
		mouseCallback = windows.NewCallback(mouseProc)
		keyCallback = windows.NewCallback(keyboardProc)
	})

	h := &win32Handle{handler: handler}
	if !activeHandle.CompareAndSwap(nil, h) {
		return nil, &HookError{Device: DeviceMouse, Err: ErrAlreadyInstalled}
	}

	// Make sure the thread has a message queue before anyone posts to it.
	var m msg
	procPeekMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0, pmNoRemove)
	h.threadID = windows.GetCurrentThreadId()

	r, _, err := procSetWindowsHookExW.Call(whMouseLL, mouseCallback, 0, 0)
	if r == 0 {
		activeHandle.Store(nil)
		return nil, &HookError{Device: DeviceMouse, Code: errnoCode(err), Err: err}
	}
	h.mouseHook = r

	r, _, err = procSetWindowsHookExW.Call(whKeyboardLL, keyCallback, 0, 0)
	if r == 0 {
		procUnhookWindowsHookEx.Call(h.mouseHook)
		activeHandle.Store(nil)
		return nil, &HookError{Device: DeviceKey, Code: errnoCode(err), Err: err}
	}
	h.keyHook = r

	return h, nil
}

func errnoCode(err error) int {
	if errno, ok := err.(windows.Errno); ok {
		return int(errno)
	}
	return -1
}

func (h *win32Handle) Run() {
	var m msg
	for {
		ret, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		if int32(ret) <= 0 {
			return
		}
		procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		procDispatchMessageW.Call(uintptr(unsafe.Pointer(&m)))
	}
}

func (h *win32Handle) Interrupt() {
	procPostThreadMessageW.Call(uintptr(h.threadID), wmQuit, 0, 0)
}

func (h *win32Handle) Uninstall() error {
	var firstErr error
	if h.keyHook != 0 {
		if r, _, err := procUnhookWindowsHookEx.Call(h.keyHook); r == 0 {
			firstErr = err
		}
		h.keyHook = 0
	}
	if h.mouseHook != 0 {
		if r, _, err := procUnhookWindowsHookEx.Call(h.mouseHook); r == 0 && firstErr == nil {
			firstErr = err
		}
		h.mouseHook = 0
	}
	activeHandle.CompareAndSwap(h, nil)
	return firstErr
}

func mouseProc(nCode int32, wParam, lParam uintptr) uintptr {
	if nCode >= 0 {
		if h := activeHandle.Load(); h != nil {
			s := (*msllHookStruct)(unsafe.Pointer(lParam))
			raw := Win32Event{
				Message:   uint32(wParam),
				Time:      time.Now(),
				X:         s.Pt.X,
				Y:         s.Pt.Y,
				MouseData: s.MouseData,
				Flags:     s.Flags,
			}
			if h.handler(raw) == Swallow {
				return 1
			}
		}
	}
	ret, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
	return ret
}

func keyboardProc(nCode int32, wParam, lParam uintptr) uintptr {
	if nCode >= 0 {
		if h := activeHandle.Load(); h != nil {
			s := (*kbdllHookStruct)(unsafe.Pointer(lParam))
			raw := Win32Event{
				Message:  uint32(wParam),
				Time:     time.Now(),
				VKCode:   s.VkCode,
				ScanCode: s.ScanCode,
				Flags:    s.Flags,
			}
			if h.handler(raw) == Swallow {
				return 1
			}
		}
	}
	ret, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
	return ret
}

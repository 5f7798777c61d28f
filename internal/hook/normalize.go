package hook

import "inputmon/internal/event"

// Normalize maps a raw platform record to a portable event. The second
// result is false for records outside the six event kinds; those are
// discarded by the caller. Normalize is pure: it keeps no state between
// calls, so modifier press/release on macOS is read from the record's own
// flag mask.
func Normalize(raw RawEvent) (event.Event, bool) {
	switch r := raw.(type) {
	case QuartzEvent:
		return NormalizeQuartz(r)
	case *QuartzEvent:
		return NormalizeQuartz(*r)
	case Win32Event:
		return NormalizeWin32(r)
	case *Win32Event:
		return NormalizeWin32(*r)
	case EvdevEvent:
		return NormalizeEvdev(r)
	case *EvdevEvent:
		return NormalizeEvdev(*r)
	case SyntheticEvent:
		return r.Event, r.Event.Kind.Valid()
	case *SyntheticEvent:
		return r.Event, r.Event.Kind.Valid()
	}
	return event.Event{}, false
}

// CGEventType values.
const (
	quartzLeftMouseDown     = 1
	quartzLeftMouseUp       = 2
	quartzRightMouseDown    = 3
	quartzRightMouseUp      = 4
	quartzMouseMoved        = 5
	quartzLeftMouseDragged  = 6
	quartzRightMouseDragged = 7
	quartzKeyDown           = 10
	quartzKeyUp             = 11
	quartzFlagsChanged      = 12
	quartzSpecial           = 14
	quartzScrollWheel       = 22
	quartzOtherMouseDown    = 25
	quartzOtherMouseUp      = 26
	quartzOtherMouseDragged = 27
)

// CGEventFlags masks.
const (
	quartzMaskAlphaShift  = 0x00010000
	quartzMaskShift       = 0x00020000
	quartzMaskControl     = 0x00040000
	quartzMaskAlternate   = 0x00080000
	quartzMaskCommand     = 0x00100000
	quartzMaskSecondaryFn = 0x00800000
)

// NormalizeQuartz maps a CGEventTap record.
func NormalizeQuartz(r QuartzEvent) (event.Event, bool) {
	switch r.Type {
	case quartzLeftMouseDown:
		return event.ButtonPress(event.ButtonLeft, r.Time), true
	case quartzLeftMouseUp:
		return event.ButtonRelease(event.ButtonLeft, r.Time), true
	case quartzRightMouseDown:
		return event.ButtonPress(event.ButtonRight, r.Time), true
	case quartzRightMouseUp:
		return event.ButtonRelease(event.ButtonRight, r.Time), true
	case quartzOtherMouseDown:
		return event.ButtonPress(quartzButton(r.ButtonNumber), r.Time), true
	case quartzOtherMouseUp:
		return event.ButtonRelease(quartzButton(r.ButtonNumber), r.Time), true
	case quartzMouseMoved, quartzLeftMouseDragged, quartzRightMouseDragged, quartzOtherMouseDragged:
		return event.MouseMove(r.X, r.Y, r.Time), true
	case quartzScrollWheel:
		return event.Wheel(r.ScrollAxis2, r.ScrollAxis1, r.Time), true
	case quartzKeyDown:
		return event.KeyPress(quartzKey(r.Keycode), r.Time), true
	case quartzKeyUp:
		return event.KeyRelease(quartzKey(r.Keycode), r.Time), true
	case quartzFlagsChanged:
		key := quartzKey(r.Keycode)
		mask := quartzModifierMask(key)
		if mask == 0 {
			return event.Event{}, false
		}
		if r.Flags&mask != 0 {
			return event.KeyPress(key, r.Time), true
		}
		return event.KeyRelease(key, r.Time), true
	}
	// quartzSpecial and anything else the tap lets through.
	return event.Event{}, false
}

func quartzButton(n int64) event.Button {
	if n == 2 {
		return event.ButtonMiddle
	}
	return event.UnknownButton(uint32(n))
}

func quartzKey(code int64) event.Key {
	if k, ok := quartzKeys[code]; ok {
		return k
	}
	return event.UnknownKey(uint32(code))
}

func quartzModifierMask(k event.Key) uint64 {
	switch k {
	case event.KeyShiftLeft, event.KeyShiftRight:
		return quartzMaskShift
	case event.KeyControlLeft, event.KeyControlRight:
		return quartzMaskControl
	case event.KeyAlt, event.KeyAltGr:
		return quartzMaskAlternate
	case event.KeyMetaLeft, event.KeyMetaRight:
		return quartzMaskCommand
	case event.KeyCapsLock:
		return quartzMaskAlphaShift
	case event.KeyFunction:
		return quartzMaskSecondaryFn
	}
	return 0
}

// Low-level hook wParam values.
const (
	wmKeyDown     = 0x0100
	wmKeyUp       = 0x0101
	wmSysKeyDown  = 0x0104
	wmSysKeyUp    = 0x0105
	wmMouseMove   = 0x0200
	wmLButtonDown = 0x0201
	wmLButtonUp   = 0x0202
	wmRButtonDown = 0x0204
	wmRButtonUp   = 0x0205
	wmMButtonDown = 0x0207
	wmMButtonUp   = 0x0208
	wmMouseWheel  = 0x020A
	wmXButtonDown = 0x020B
	wmXButtonUp   = 0x020C
	wmMouseHWheel = 0x020E

	wheelDelta = 120

	vkReturn      = 0x0D
	llkhfExtended = 0x01
)

// NormalizeWin32 maps a WH_MOUSE_LL or WH_KEYBOARD_LL record.
func NormalizeWin32(r Win32Event) (event.Event, bool) {
	switch r.Message {
	case wmKeyDown, wmSysKeyDown:
		return event.KeyPress(win32Key(r.VKCode, r.Flags), r.Time), true
	case wmKeyUp, wmSysKeyUp:
		return event.KeyRelease(win32Key(r.VKCode, r.Flags), r.Time), true
	case wmMouseMove:
		return event.MouseMove(float64(r.X), float64(r.Y), r.Time), true
	case wmLButtonDown:
		return event.ButtonPress(event.ButtonLeft, r.Time), true
	case wmLButtonUp:
		return event.ButtonRelease(event.ButtonLeft, r.Time), true
	case wmRButtonDown:
		return event.ButtonPress(event.ButtonRight, r.Time), true
	case wmRButtonUp:
		return event.ButtonRelease(event.ButtonRight, r.Time), true
	case wmMButtonDown:
		return event.ButtonPress(event.ButtonMiddle, r.Time), true
	case wmMButtonUp:
		return event.ButtonRelease(event.ButtonMiddle, r.Time), true
	case wmXButtonDown:
		return event.ButtonPress(event.UnknownButton(hiword(r.MouseData)), r.Time), true
	case wmXButtonUp:
		return event.ButtonRelease(event.UnknownButton(hiword(r.MouseData)), r.Time), true
	case wmMouseWheel:
		return event.Wheel(0, wheelSteps(r.MouseData), r.Time), true
	case wmMouseHWheel:
		return event.Wheel(wheelSteps(r.MouseData), 0, r.Time), true
	}
	return event.Event{}, false
}

func hiword(v uint32) uint32 {
	return (v >> 16) & 0xFFFF
}

func wheelSteps(mouseData uint32) int64 {
	return int64(int16(hiword(mouseData))) / wheelDelta
}

// The keypad Enter shares VK_RETURN and is told apart by LLKHF_EXTENDED.
func win32Key(vk, flags uint32) event.Key {
	if vk == vkReturn && flags&llkhfExtended != 0 {
		return event.KeyKpReturn
	}
	if k, ok := win32Keys[vk]; ok {
		return k
	}
	return event.UnknownKey(vk)
}

// input_event type and code values.
const (
	evSyn = 0x00
	evKey = 0x01
	evRel = 0x02

	synReport = 0

	relHWheel = 0x06
	relWheel  = 0x08

	btnLeft      = 0x110
	btnRight     = 0x111
	btnMiddle    = 0x112
	btnMouseLast = 0x11f

	btnMisc     = 0x100
	btnDigiLast = 0x15f
)

// NormalizeEvdev maps a Linux input_event. Relative pointer axes are only
// meaningful once the adapter has folded them into the SYN_REPORT record.
func NormalizeEvdev(r EvdevEvent) (event.Event, bool) {
	switch r.Type {
	case evSyn:
		if r.Code == synReport && r.Moved {
			return event.MouseMove(r.X, r.Y, r.Time), true
		}
	case evKey:
		pressed := r.Value != 0 // 2 is autorepeat
		if r.Code >= btnMisc && r.Code <= btnDigiLast {
			if r.Code < btnLeft || r.Code > btnMouseLast {
				return event.Event{}, false
			}
			b := evdevButton(r.Code)
			if pressed {
				return event.ButtonPress(b, r.Time), true
			}
			return event.ButtonRelease(b, r.Time), true
		}
		k := evdevKey(r.Code)
		if pressed {
			return event.KeyPress(k, r.Time), true
		}
		return event.KeyRelease(k, r.Time), true
	case evRel:
		switch r.Code {
		case relWheel:
			return event.Wheel(0, int64(r.Value), r.Time), true
		case relHWheel:
			return event.Wheel(int64(r.Value), 0, r.Time), true
		}
	}
	return event.Event{}, false
}

func evdevButton(code uint16) event.Button {
	switch code {
	case btnLeft:
		return event.ButtonLeft
	case btnRight:
		return event.ButtonRight
	case btnMiddle:
		return event.ButtonMiddle
	}
	return event.UnknownButton(uint32(code))
}

func evdevKey(code uint16) event.Key {
	if k, ok := evdevKeys[code]; ok {
		return k
	}
	return event.UnknownKey(uint32(code))
}

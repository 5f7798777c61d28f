package event

import "fmt"

// Button identifies a mouse button. Named buttons use small values;
// unmapped platform buttons are carried with unknownFlag set.
type Button uint32

const (
	ButtonNone   Button = 0
	ButtonLeft   Button = 1
	ButtonMiddle Button = 2
	ButtonRight  Button = 3

	unknownFlag uint32 = 1 << 31
)

// UnknownButton wraps a platform button number that has no named variant.
func UnknownButton(code uint32) Button {
	return Button(code | unknownFlag)
}

// Unknown returns the platform code for an unmapped button.
func (b Button) Unknown() (uint32, bool) {
	if uint32(b)&unknownFlag == 0 {
		return 0, false
	}
	return uint32(b) &^ unknownFlag, true
}

// Code is the numeric projection: Left=1, Middle=2, Right=3, Unknown(n)=n.
func (b Button) Code() int32 {
	if code, ok := b.Unknown(); ok {
		return int32(code)
	}
	return int32(b)
}

func (b Button) String() string {
	switch b {
	case ButtonNone:
		return "none"
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	}
	if code, ok := b.Unknown(); ok {
		return fmt.Sprintf("unknown(%d)", code)
	}
	return fmt.Sprintf("button(%d)", uint32(b))
}

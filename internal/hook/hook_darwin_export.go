//go:build darwin && cgo

package hook

/*
#include <stdint.h>
*/
import "C"

import "runtime/cgo"

//export goQuartzEvent
func goQuartzEvent(handle C.uintptr_t, typ C.uint32_t, x, y C.double,
	keycode C.int64_t, flags C.uint64_t, button C.int64_t,
	axis1, axis2, subtype C.int64_t) {
	h, ok := cgo.Handle(handle).Value().(*quartzHandle)
	if !ok {
		return
	}
	h.deliver(QuartzEvent{
		Type:         uint32(typ),
		X:            float64(x),
		Y:            float64(y),
		Keycode:      int64(keycode),
		Flags:        uint64(flags),
		ButtonNumber: int64(button),
		ScrollAxis1:  int64(axis1),
		ScrollAxis2:  int64(axis2),
		Subtype:      int64(subtype),
	})
}

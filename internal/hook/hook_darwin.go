//go:build darwin && cgo

package hook

/*
#cgo CFLAGS: -x objective-c -fblocks
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation

#include <ApplicationServices/ApplicationServices.h>
#include <CoreFoundation/CoreFoundation.h>
#include <stdint.h>
#include <stdlib.h>

extern void goQuartzEvent(uintptr_t handle, uint32_t type, double x, double y,
	int64_t keycode, uint64_t flags, int64_t button,
	int64_t axis1, int64_t axis2, int64_t subtype);

typedef struct {
	uintptr_t handle;
	CFMachPortRef tap;
	CFRunLoopSourceRef source;
	CFRunLoopRef loop;
} quartzHook;

static int quartzTrusted(void) {
	const void *keys[] = { kAXTrustedCheckOptionPrompt };
	const void *values[] = { kCFBooleanFalse };
	CFDictionaryRef options = CFDictionaryCreate(kCFAllocatorDefault, keys, values, 1,
		&kCFTypeDictionaryKeyCallBacks, &kCFTypeDictionaryValueCallBacks);
	Boolean trusted = AXIsProcessTrustedWithOptions(options);
	CFRelease(options);
	return trusted ? 1 : 0;
}

static CGEventRef quartzCallback(CGEventTapProxy proxy, CGEventType type, CGEventRef event, void *refcon) {
	(void)proxy;
	quartzHook *h = (quartzHook *)refcon;

	if (type == kCGEventTapDisabledByTimeout || type == kCGEventTapDisabledByUserInput) {
		if (h->tap != NULL) {
			CGEventTapEnable(h->tap, true);
		}
		return event;
	}

	CGPoint p = CGEventGetLocation(event);
	goQuartzEvent(h->handle, (uint32_t)type, p.x, p.y,
		CGEventGetIntegerValueField(event, kCGKeyboardEventKeycode),
		(uint64_t)CGEventGetFlags(event),
		CGEventGetIntegerValueField(event, kCGMouseEventButtonNumber),
		CGEventGetIntegerValueField(event, kCGScrollWheelEventDeltaAxis1),
		CGEventGetIntegerValueField(event, kCGScrollWheelEventDeltaAxis2),
		CGEventGetIntegerValueField(event, kCGMouseEventSubtype));
	return event;
}

static quartzHook *quartzInstall(uintptr_t handle, CGEventMask mask) {
	quartzHook *h = calloc(1, sizeof(quartzHook));
	if (h == NULL) {
		return NULL;
	}
	h->handle = handle;
	h->tap = CGEventTapCreate(kCGSessionEventTap, kCGHeadInsertEventTap,
		kCGEventTapOptionListenOnly, mask, quartzCallback, h);
	if (h->tap == NULL) {
		free(h);
		return NULL;
	}
	h->source = CFMachPortCreateRunLoopSource(kCFAllocatorDefault, h->tap, 0);
	if (h->source == NULL) {
		CFRelease(h->tap);
		free(h);
		return NULL;
	}
	h->loop = CFRunLoopGetCurrent();
	CFRetain(h->loop);
	CFRunLoopAddSource(h->loop, h->source, kCFRunLoopCommonModes);
	CGEventTapEnable(h->tap, true);
	return h;
}

static void quartzRun(void) {
	CFRunLoopRun();
}

// CFRunLoopStop must run on the loop's own thread, so the stop is queued as
// a block on that loop and the loop is woken to pick it up.
static void quartzInterrupt(quartzHook *h) {
	CFRunLoopPerformBlock(h->loop, kCFRunLoopCommonModes, ^{
		CFRunLoopStop(CFRunLoopGetCurrent());
	});
	CFRunLoopWakeUp(h->loop);
}

static void quartzUninstall(quartzHook *h) {
	CGEventTapEnable(h->tap, false);
	CFRunLoopRemoveSource(h->loop, h->source, kCFRunLoopCommonModes);
	CFMachPortInvalidate(h->tap);
	CFRelease(h->source);
	CFRelease(h->tap);
	CFRelease(h->loop);
	free(h);
}

static CGEventMask quartzMaskBit(uint32_t type) {
	return ((CGEventMask)1) << type;
}
*/
import "C"

import (
	"runtime/cgo"
	"sync"
	"time"
)

var quartzMaskTypes = []uint32{
	quartzLeftMouseDown, quartzLeftMouseUp,
	quartzRightMouseDown, quartzRightMouseUp,
	quartzOtherMouseDown, quartzOtherMouseUp,
	quartzMouseMoved,
	quartzLeftMouseDragged, quartzRightMouseDragged, quartzOtherMouseDragged,
	quartzScrollWheel,
	quartzKeyDown, quartzKeyUp, quartzFlagsChanged,
	quartzSpecial,
}

type quartzAdapter struct{}

func newPlatformAdapter() Adapter {
	return quartzAdapter{}
}

type quartzHandle struct {
	handler Handler
	handle  cgo.Handle

	mu   sync.Mutex
	hook *C.quartzHook
}

func (quartzAdapter) Install(handler Handler) (Handle, error) {
	if C.quartzTrusted() == 0 {
		return nil, &HookError{Device: DeviceMouse, Code: -1, Err: ErrPermissionDenied}
	}

	var mask C.CGEventMask
	for _, t := range quartzMaskTypes {
		mask |= C.quartzMaskBit(C.uint32_t(t))
	}

	h := &quartzHandle{handler: handler}
	h.handle = cgo.NewHandle(h)
	hook := C.quartzInstall(C.uintptr_t(h.handle), mask)
	if hook == nil {
		h.handle.Delete()
		return nil, &HookError{Device: DeviceMouse, Code: -2, Err: ErrPermissionDenied}
	}
	h.hook = hook
	return h, nil
}

func (h *quartzHandle) Run() {
	C.quartzRun()
}

func (h *quartzHandle) Interrupt() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.hook != nil {
		C.quartzInterrupt(h.hook)
	}
}

func (h *quartzHandle) Uninstall() error {
	h.mu.Lock()
	hook := h.hook
	h.hook = nil
	h.mu.Unlock()

	if hook != nil {
		C.quartzUninstall(hook)
		h.handle.Delete()
	}
	return nil
}

func (h *quartzHandle) deliver(raw QuartzEvent) {
	raw.Time = time.Now()
	h.handler(raw)
}

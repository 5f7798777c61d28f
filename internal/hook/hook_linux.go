//go:build linux

package hook

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"
	"unsafe"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"golang.org/x/sys/unix"
)

const (
	procInputDevices = "/proc/bus/input/devices"
	devInputDir      = "/dev/input"

	relX = 0x00
	relY = 0x01
	absX = 0x00
	absY = 0x01
)

// input_event is a timeval followed by type, code and value.
var inputEventSize = int(unsafe.Sizeof(unix.Timeval{})) + 8

type evdevAdapter struct{}

func newPlatformAdapter() Adapter {
	return evdevAdapter{}
}

type evdevDevice struct {
	path string
	fd   int

	dx, dy     int32
	abs        bool
	absX, absY int32
}

type evdevHandle struct {
	handler Handler
	devices []*evdevDevice
	wake    [2]int
	once    sync.Once

	// conn is nil when no X server is reachable; positions are then
	// integrated from relative motion.
	conn *xgb.Conn
	root xproto.Window
	x, y float64
}

func (evdevAdapter) Install(handler Handler) (Handle, error) {
	f, err := os.Open(procInputDevices)
	if err != nil {
		return nil, &HookError{Device: DeviceKey, Code: errnoOf(err), Err: err}
	}
	candidates := parseInputDevices(f)
	f.Close()

	h := &evdevHandle{handler: handler}
	denied := 0
	for _, d := range candidates {
		if !d.pointerOrKeys() {
			continue
		}
		path := filepath.Join(devInputDir, d.Handler)
		fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
		if err != nil {
			if errors.Is(err, unix.EACCES) || errors.Is(err, unix.EPERM) {
				denied++
			}
			continue
		}
		h.devices = append(h.devices, &evdevDevice{path: path, fd: fd})
	}
	if len(h.devices) == 0 {
		if denied > 0 {
			return nil, &HookError{Device: DeviceKey, Code: int(unix.EACCES), Err: ErrPermissionDenied}
		}
		return nil, &HookError{Device: DeviceKey, Err: ErrNoDevices}
	}

	if err := unix.Pipe2(h.wake[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		h.closeDevices()
		return nil, &HookError{Device: DeviceKey, Code: errnoOf(err), Err: err}
	}

	if conn, err := xgb.NewConn(); err == nil {
		h.conn = conn
		h.root = xproto.Setup(conn).DefaultScreen(conn).Root
		h.queryPointer()
	}
	return h, nil
}

func errnoOf(err error) int {
	var errno unix.Errno
	if errors.As(err, &errno) {
		return int(errno)
	}
	return -1
}

func (h *evdevHandle) Run() {
	fds := make([]unix.PollFd, 0, len(h.devices)+1)
	fds = append(fds, unix.PollFd{Fd: int32(h.wake[0]), Events: unix.POLLIN})
	for _, d := range h.devices {
		fds = append(fds, unix.PollFd{Fd: int32(d.fd), Events: unix.POLLIN})
	}

	buf := make([]byte, inputEventSize*64)
	for {
		if _, err := unix.Poll(fds, -1); err != nil {
			if err == unix.EINTR {
				continue
			}
			return
		}
		if fds[0].Revents != 0 {
			return
		}
		live := 0
		for i := 1; i < len(fds); i++ {
			if fds[i].Fd < 0 {
				continue
			}
			d := h.devices[i-1]
			if fds[i].Revents&unix.POLLIN != 0 && !h.drain(d, buf) {
				fds[i].Fd = -1
				continue
			}
			if fds[i].Revents&(unix.POLLERR|unix.POLLHUP|unix.POLLNVAL) != 0 {
				fds[i].Fd = -1
				continue
			}
			live++
		}
		if live == 0 {
			// Every device is gone; wait for the interrupt only.
			fds = fds[:1]
		}
	}
}

// drain reads all pending records from d. It returns false once the device
// has gone away.
func (h *evdevHandle) drain(d *evdevDevice, buf []byte) bool {
	for {
		n, err := unix.Read(d.fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				return true
			}
			return false
		}
		if n <= 0 {
			return true
		}
		for off := 0; off+inputEventSize <= n; off += inputEventSize {
			rec := buf[off+inputEventSize-8 : off+inputEventSize]
			h.record(d,
				binary.NativeEndian.Uint16(rec[0:2]),
				binary.NativeEndian.Uint16(rec[2:4]),
				int32(binary.NativeEndian.Uint32(rec[4:8])))
		}
	}
}

func (h *evdevHandle) record(d *evdevDevice, typ, code uint16, value int32) {
	now := time.Now()
	switch typ {
	case evRel:
		switch code {
		case relX:
			d.dx += value
		case relY:
			d.dy += value
		case relWheel, relHWheel:
			h.handler(EvdevEvent{Type: typ, Code: code, Value: value, Time: now})
		}
	case evAbs:
		switch code {
		case absX:
			d.abs, d.absX = true, value
		case absY:
			d.abs, d.absY = true, value
		}
	case evKey:
		h.handler(EvdevEvent{Type: typ, Code: code, Value: value, Time: now})
	case evSyn:
		if code != synReport || (d.dx == 0 && d.dy == 0 && !d.abs) {
			return
		}
		h.move(d)
		d.dx, d.dy, d.abs = 0, 0, false
		h.handler(EvdevEvent{Type: evSyn, Code: synReport, Moved: true, X: h.x, Y: h.y, Time: now})
	}
}

func (h *evdevHandle) move(d *evdevDevice) {
	if h.queryPointer() {
		return
	}
	if d.abs {
		h.x, h.y = float64(d.absX), float64(d.absY)
		return
	}
	h.x = max(0, h.x+float64(d.dx))
	h.y = max(0, h.y+float64(d.dy))
}

func (h *evdevHandle) queryPointer() bool {
	if h.conn == nil {
		return false
	}
	reply, err := xproto.QueryPointer(h.conn, h.root).Reply()
	if err != nil {
		return false
	}
	h.x, h.y = float64(reply.RootX), float64(reply.RootY)
	return true
}

func (h *evdevHandle) Interrupt() {
	h.once.Do(func() {
		unix.Write(h.wake[1], []byte{0})
	})
}

func (h *evdevHandle) Uninstall() error {
	h.closeDevices()
	unix.Close(h.wake[0])
	unix.Close(h.wake[1])
	if h.conn != nil {
		h.conn.Close()
		h.conn = nil
	}
	return nil
}

func (h *evdevHandle) closeDevices() {
	for _, d := range h.devices {
		if d.fd >= 0 {
			unix.Close(d.fd)
			d.fd = -1
		}
	}
}

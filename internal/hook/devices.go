package hook

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// inputDevice is one block of /proc/bus/input/devices.
type inputDevice struct {
	Name    string
	Handler string
	EV      uint64
}

// pointerOrKeys reports whether the device emits keys, buttons or relative
// motion. Absolute-only devices (touchscreens, tablets) are included too
// since they move the pointer.
func (d inputDevice) pointerOrKeys() bool {
	return d.EV&(1<<evKey|1<<evRel|1<<evAbs) != 0
}

const evAbs = 0x03

// parseInputDevices reads the /proc/bus/input/devices format and returns
// every block that has an event handler.
func parseInputDevices(r io.Reader) []inputDevice {
	var (
		devices []inputDevice
		cur     inputDevice
	)
	flush := func() {
		if cur.Handler != "" {
			devices = append(devices, cur)
		}
		cur = inputDevice{}
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "N: Name="):
			cur.Name = strings.Trim(strings.TrimPrefix(line, "N: Name="), `"`)
		case strings.HasPrefix(line, "H: Handlers="):
			for _, part := range strings.Fields(strings.TrimPrefix(line, "H: Handlers=")) {
				if strings.HasPrefix(part, "event") {
					cur.Handler = part
				}
			}
		case strings.HasPrefix(line, "B: EV="):
			if v, err := strconv.ParseUint(strings.TrimPrefix(line, "B: EV="), 16, 64); err == nil {
				cur.EV = v
			}
		}
	}
	flush()
	return devices
}

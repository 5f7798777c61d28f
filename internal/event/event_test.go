package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyProjection(t *testing.T) {
	tests := []struct {
		key  Key
		code int32
		name string
	}{
		{KeyAlt, 18, "Alt"},
		{KeyAltGr, 225, "AltGr"},
		{KeyControlRight, 17, "ControlRight"},
		{KeyF12, 123, "F12"},
		{KeyKpMultiply, 106, "Multiply"},
		{KeyKpDivide, 111, "Divide"},
		{KeyA, 65, "A"},
		{KeyZ, 90, "Z"},
		{KeyPrintScreen, 154, "PrintScreen"},
		{KeyNum1, 0, "Num1"},
		{KeyKp5, 0, "Kp5"},
		{KeyKpReturn, 0, "KpReturn"},
		{UnknownKey(300), 300, "Unknown(300)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, name := tt.key.Projection()
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.name, name)
		})
	}
}

func TestEveryNamedKeyHasName(t *testing.T) {
	for k := KeyNone + 1; k < keyCount; k++ {
		assert.NotEmpty(t, keyTable[k].name, "key %d has no name", k)
	}
}

func TestParseKey(t *testing.T) {
	k, ok := ParseKey("escape")
	assert.True(t, ok)
	assert.Equal(t, KeyEscape, k)

	k, ok = ParseKey("Multiply")
	assert.True(t, ok)
	assert.Equal(t, KeyKpMultiply, k)

	k, ok = ParseKey("kpdelete")
	assert.True(t, ok)
	assert.Equal(t, KeyKpDelete, k)

	k, ok = ParseKey("Kp0")
	assert.True(t, ok)
	assert.Equal(t, KeyKp0, k)

	_, ok = ParseKey("None")
	assert.False(t, ok)
	_, ok = ParseKey("Hyper")
	assert.False(t, ok)
}

func TestKeyModifiers(t *testing.T) {
	assert.Equal(t, []string{"shift"}, KeyShiftLeft.Modifiers())
	assert.Equal(t, []string{"control"}, KeyControlRight.Modifiers())
	assert.Equal(t, []string{"alt"}, KeyAltGr.Modifiers())
	assert.Equal(t, []string{"meta"}, KeyMetaLeft.Modifiers())
	assert.Nil(t, KeyA.Modifiers())
}

func TestButtonCode(t *testing.T) {
	assert.Equal(t, int32(1), ButtonLeft.Code())
	assert.Equal(t, int32(2), ButtonMiddle.Code())
	assert.Equal(t, int32(3), ButtonRight.Code())
	assert.Equal(t, int32(8), UnknownButton(8).Code())

	code, ok := UnknownButton(4).Unknown()
	assert.True(t, ok)
	assert.Equal(t, uint32(4), code)

	_, ok = ButtonLeft.Unknown()
	assert.False(t, ok)
}

func TestEventClassification(t *testing.T) {
	now := time.Now()

	assert.True(t, ButtonPress(ButtonLeft, now).IsPointer())
	assert.True(t, Wheel(0, 1, now).IsPointer())
	assert.True(t, KeyPress(KeyA, now).IsKey())
	assert.False(t, KeyRelease(KeyA, now).IsPointer())

	assert.False(t, ButtonPress(ButtonLeft, now).HasPosition())
	assert.True(t, MouseMove(1, 0, now).HasPosition())

	assert.False(t, KindInvalid.Valid())
	assert.True(t, KindKeyRelease.Valid())
	assert.False(t, Kind(99).Valid())
}

func TestEventSeconds(t *testing.T) {
	e := MouseMove(0, 0, time.Unix(10, int64(500*time.Millisecond)))
	assert.InDelta(t, 10.5, e.Seconds(), 1e-9)
}

package event

import (
	"fmt"
	"strings"
)

// Key identifies a keyboard key. Named keys are small positive values;
// unmapped platform codes are carried with unknownFlag set.
type Key uint32

const (
	KeyNone Key = iota
	KeyAlt
	KeyAltGr
	KeyBackspace
	KeyCapsLock
	KeyControlLeft
	KeyControlRight
	KeyDelete
	KeyDownArrow
	KeyEnd
	KeyEscape
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyHome
	KeyLeftArrow
	KeyMetaLeft
	KeyMetaRight
	KeyPageDown
	KeyPageUp
	KeyReturn
	KeyRightArrow
	KeyShiftLeft
	KeyShiftRight
	KeySpace
	KeyTab
	KeyUpArrow
	KeyNumLock
	KeyPrintScreen
	KeyScrollLock
	KeyPause
	KeyInsert
	KeyKpMultiply
	KeyKpDivide
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	KeyNum0
	KeyNum1
	KeyNum2
	KeyNum3
	KeyNum4
	KeyNum5
	KeyNum6
	KeyNum7
	KeyNum8
	KeyNum9
	KeyMinus
	KeyEqual
	KeyLeftBracket
	KeyRightBracket
	KeySemiColon
	KeyQuote
	KeyBackQuote
	KeyBackSlash
	KeyComma
	KeyDot
	KeySlash
	KeyFunction
	KeyKp0
	KeyKp1
	KeyKp2
	KeyKp3
	KeyKp4
	KeyKp5
	KeyKp6
	KeyKp7
	KeyKp8
	KeyKp9
	KeyKpPlus
	KeyKpMinus
	KeyKpReturn
	KeyKpDelete

	keyCount
)

type keyInfo struct {
	code int32
	name string
}

// keyTable holds the (code, name) projection. Keys with code 0 have no
// numeric projection and report their variant name.
var keyTable = [keyCount]keyInfo{
	KeyNone:         {0, "None"},
	KeyAlt:          {18, "Alt"},
	KeyAltGr:        {225, "AltGr"},
	KeyBackspace:    {8, "Backspace"},
	KeyCapsLock:     {20, "CapsLock"},
	KeyControlLeft:  {17, "ControlLeft"},
	KeyControlRight: {17, "ControlRight"},
	KeyDelete:       {46, "Delete"},
	KeyDownArrow:    {40, "DownArrow"},
	KeyEnd:          {35, "End"},
	KeyEscape:       {27, "Escape"},
	KeyF1:           {112, "F1"},
	KeyF2:           {113, "F2"},
	KeyF3:           {114, "F3"},
	KeyF4:           {115, "F4"},
	KeyF5:           {116, "F5"},
	KeyF6:           {117, "F6"},
	KeyF7:           {118, "F7"},
	KeyF8:           {119, "F8"},
	KeyF9:           {120, "F9"},
	KeyF10:          {121, "F10"},
	KeyF11:          {122, "F11"},
	KeyF12:          {123, "F12"},
	KeyHome:         {36, "Home"},
	KeyLeftArrow:    {37, "LeftArrow"},
	KeyMetaLeft:     {91, "MetaLeft"},
	KeyMetaRight:    {91, "MetaRight"},
	KeyPageDown:     {34, "PageDown"},
	KeyPageUp:       {33, "PageUp"},
	KeyReturn:       {13, "Return"},
	KeyRightArrow:   {39, "RightArrow"},
	KeyShiftLeft:    {16, "ShiftLeft"},
	KeyShiftRight:   {16, "ShiftRight"},
	KeySpace:        {32, "Space"},
	KeyTab:          {9, "Tab"},
	KeyUpArrow:      {38, "UpArrow"},
	KeyNumLock:      {144, "NumLock"},
	KeyPrintScreen:  {154, "PrintScreen"},
	KeyScrollLock:   {145, "ScrollLock"},
	KeyPause:        {19, "Pause"},
	KeyInsert:       {45, "Insert"},
	KeyKpMultiply:   {106, "Multiply"},
	KeyKpDivide:     {111, "Divide"},
	KeyA:            {65, "A"},
	KeyB:            {66, "B"},
	KeyC:            {67, "C"},
	KeyD:            {68, "D"},
	KeyE:            {69, "E"},
	KeyF:            {70, "F"},
	KeyG:            {71, "G"},
	KeyH:            {72, "H"},
	KeyI:            {73, "I"},
	KeyJ:            {74, "J"},
	KeyK:            {75, "K"},
	KeyL:            {76, "L"},
	KeyM:            {77, "M"},
	KeyN:            {78, "N"},
	KeyO:            {79, "O"},
	KeyP:            {80, "P"},
	KeyQ:            {81, "Q"},
	KeyR:            {82, "R"},
	KeyS:            {83, "S"},
	KeyT:            {84, "T"},
	KeyU:            {85, "U"},
	KeyV:            {86, "V"},
	KeyW:            {87, "W"},
	KeyX:            {88, "X"},
	KeyY:            {89, "Y"},
	KeyZ:            {90, "Z"},
	KeyNum0:         {0, "Num0"},
	KeyNum1:         {0, "Num1"},
	KeyNum2:         {0, "Num2"},
	KeyNum3:         {0, "Num3"},
	KeyNum4:         {0, "Num4"},
	KeyNum5:         {0, "Num5"},
	KeyNum6:         {0, "Num6"},
	KeyNum7:         {0, "Num7"},
	KeyNum8:         {0, "Num8"},
	KeyNum9:         {0, "Num9"},
	KeyMinus:        {0, "Minus"},
	KeyEqual:        {0, "Equal"},
	KeyLeftBracket:  {0, "LeftBracket"},
	KeyRightBracket: {0, "RightBracket"},
	KeySemiColon:    {0, "SemiColon"},
	KeyQuote:        {0, "Quote"},
	KeyBackQuote:    {0, "BackQuote"},
	KeyBackSlash:    {0, "BackSlash"},
	KeyComma:        {0, "Comma"},
	KeyDot:          {0, "Dot"},
	KeySlash:        {0, "Slash"},
	KeyFunction:     {0, "Function"},
	KeyKp0:          {0, "Kp0"},
	KeyKp1:          {0, "Kp1"},
	KeyKp2:          {0, "Kp2"},
	KeyKp3:          {0, "Kp3"},
	KeyKp4:          {0, "Kp4"},
	KeyKp5:          {0, "Kp5"},
	KeyKp6:          {0, "Kp6"},
	KeyKp7:          {0, "Kp7"},
	KeyKp8:          {0, "Kp8"},
	KeyKp9:          {0, "Kp9"},
	KeyKpPlus:       {0, "KpPlus"},
	KeyKpMinus:      {0, "KpMinus"},
	KeyKpReturn:     {0, "KpReturn"},
	KeyKpDelete:     {0, "KpDelete"},
}

// UnknownKey wraps a platform key code that has no named variant.
func UnknownKey(code uint32) Key {
	return Key(code | unknownFlag)
}

// Unknown returns the platform code for an unmapped key.
func (k Key) Unknown() (uint32, bool) {
	if uint32(k)&unknownFlag == 0 {
		return 0, false
	}
	return uint32(k) &^ unknownFlag, true
}

// Projection returns the deterministic (code, name) pair for k.
func (k Key) Projection() (int32, string) {
	if code, ok := k.Unknown(); ok {
		return int32(code), fmt.Sprintf("Unknown(%d)", code)
	}
	if k >= keyCount {
		return 0, fmt.Sprintf("Key(%d)", uint32(k))
	}
	info := keyTable[k]
	return info.code, info.name
}

// Code is the numeric half of the projection.
func (k Key) Code() int32 {
	code, _ := k.Projection()
	return code
}

// Name is the textual half of the projection.
func (k Key) Name() string {
	_, name := k.Projection()
	return name
}

func (k Key) String() string {
	return k.Name()
}

// ParseKey looks up a named key by its projection name, case-insensitively.
func ParseKey(name string) (Key, bool) {
	for k := Key(1); k < keyCount; k++ {
		if strings.EqualFold(keyTable[k].name, name) {
			return k, true
		}
	}
	return KeyNone, false
}

// Modifier returns the modifier name for modifier keys, or "" otherwise.
func (k Key) Modifier() string {
	switch k {
	case KeyShiftLeft, KeyShiftRight:
		return "shift"
	case KeyControlLeft, KeyControlRight:
		return "control"
	case KeyAlt, KeyAltGr:
		return "alt"
	case KeyMetaLeft, KeyMetaRight:
		return "meta"
	}
	return ""
}

// Modifiers returns the modifiers implied by the key itself. The hooks do
// not track held modifier state, so a plain letter reports none.
func (k Key) Modifiers() []string {
	if m := k.Modifier(); m != "" {
		return []string{m}
	}
	return nil
}

package hook

import "inputmon/internal/event"

// quartzKeys maps macOS virtual key codes (kVK_*) to keys.
var quartzKeys = map[int64]event.Key{
	0:   event.KeyA,
	1:   event.KeyS,
	2:   event.KeyD,
	3:   event.KeyF,
	4:   event.KeyH,
	5:   event.KeyG,
	6:   event.KeyZ,
	7:   event.KeyX,
	8:   event.KeyC,
	9:   event.KeyV,
	11:  event.KeyB,
	12:  event.KeyQ,
	13:  event.KeyW,
	14:  event.KeyE,
	15:  event.KeyR,
	16:  event.KeyY,
	17:  event.KeyT,
	18:  event.KeyNum1,
	19:  event.KeyNum2,
	20:  event.KeyNum3,
	21:  event.KeyNum4,
	22:  event.KeyNum6,
	23:  event.KeyNum5,
	24:  event.KeyEqual,
	25:  event.KeyNum9,
	26:  event.KeyNum7,
	27:  event.KeyMinus,
	28:  event.KeyNum8,
	29:  event.KeyNum0,
	30:  event.KeyRightBracket,
	31:  event.KeyO,
	32:  event.KeyU,
	33:  event.KeyLeftBracket,
	34:  event.KeyI,
	35:  event.KeyP,
	36:  event.KeyReturn,
	37:  event.KeyL,
	38:  event.KeyJ,
	39:  event.KeyQuote,
	40:  event.KeyK,
	41:  event.KeySemiColon,
	42:  event.KeyBackSlash,
	43:  event.KeyComma,
	44:  event.KeySlash,
	45:  event.KeyN,
	46:  event.KeyM,
	47:  event.KeyDot,
	48:  event.KeyTab,
	49:  event.KeySpace,
	50:  event.KeyBackQuote,
	51:  event.KeyBackspace,
	53:  event.KeyEscape,
	54:  event.KeyMetaRight,
	55:  event.KeyMetaLeft,
	56:  event.KeyShiftLeft,
	57:  event.KeyCapsLock,
	58:  event.KeyAlt,
	59:  event.KeyControlLeft,
	60:  event.KeyShiftRight,
	61:  event.KeyAltGr,
	62:  event.KeyControlRight,
	63:  event.KeyFunction,
	65:  event.KeyKpDelete,
	67:  event.KeyKpMultiply,
	69:  event.KeyKpPlus,
	71:  event.KeyNumLock,
	75:  event.KeyKpDivide,
	76:  event.KeyKpReturn,
	78:  event.KeyKpMinus,
	82:  event.KeyKp0,
	83:  event.KeyKp1,
	84:  event.KeyKp2,
	85:  event.KeyKp3,
	86:  event.KeyKp4,
	87:  event.KeyKp5,
	88:  event.KeyKp6,
	89:  event.KeyKp7,
	91:  event.KeyKp8,
	92:  event.KeyKp9,
	96:  event.KeyF5,
	97:  event.KeyF6,
	98:  event.KeyF7,
	99:  event.KeyF3,
	100: event.KeyF8,
	101: event.KeyF9,
	103: event.KeyF11,
	109: event.KeyF10,
	111: event.KeyF12,
	115: event.KeyHome,
	116: event.KeyPageUp,
	117: event.KeyDelete,
	118: event.KeyF4,
	119: event.KeyEnd,
	120: event.KeyF2,
	121: event.KeyPageDown,
	122: event.KeyF1,
	123: event.KeyLeftArrow,
	124: event.KeyRightArrow,
	125: event.KeyDownArrow,
	126: event.KeyUpArrow,
}

// win32Keys maps Windows virtual-key codes to keys. The generic VK_SHIFT,
// VK_CONTROL and VK_MENU codes report as the left-hand variants.
var win32Keys = map[uint32]event.Key{
	0x08: event.KeyBackspace,
	0x09: event.KeyTab,
	0x0D: event.KeyReturn,
	0x10: event.KeyShiftLeft,
	0x11: event.KeyControlLeft,
	0x12: event.KeyAlt,
	0x13: event.KeyPause,
	0x14: event.KeyCapsLock,
	0x1B: event.KeyEscape,
	0x20: event.KeySpace,
	0x21: event.KeyPageUp,
	0x22: event.KeyPageDown,
	0x23: event.KeyEnd,
	0x24: event.KeyHome,
	0x25: event.KeyLeftArrow,
	0x26: event.KeyUpArrow,
	0x27: event.KeyRightArrow,
	0x28: event.KeyDownArrow,
	0x2C: event.KeyPrintScreen,
	0x2D: event.KeyInsert,
	0x2E: event.KeyDelete,
	0x30: event.KeyNum0,
	0x31: event.KeyNum1,
	0x32: event.KeyNum2,
	0x33: event.KeyNum3,
	0x34: event.KeyNum4,
	0x35: event.KeyNum5,
	0x36: event.KeyNum6,
	0x37: event.KeyNum7,
	0x38: event.KeyNum8,
	0x39: event.KeyNum9,
	0x41: event.KeyA,
	0x42: event.KeyB,
	0x43: event.KeyC,
	0x44: event.KeyD,
	0x45: event.KeyE,
	0x46: event.KeyF,
	0x47: event.KeyG,
	0x48: event.KeyH,
	0x49: event.KeyI,
	0x4A: event.KeyJ,
	0x4B: event.KeyK,
	0x4C: event.KeyL,
	0x4D: event.KeyM,
	0x4E: event.KeyN,
	0x4F: event.KeyO,
	0x50: event.KeyP,
	0x51: event.KeyQ,
	0x52: event.KeyR,
	0x53: event.KeyS,
	0x54: event.KeyT,
	0x55: event.KeyU,
	0x56: event.KeyV,
	0x57: event.KeyW,
	0x58: event.KeyX,
	0x59: event.KeyY,
	0x5A: event.KeyZ,
	0x5B: event.KeyMetaLeft,
	0x5C: event.KeyMetaRight,
	0x60: event.KeyKp0,
	0x61: event.KeyKp1,
	0x62: event.KeyKp2,
	0x63: event.KeyKp3,
	0x64: event.KeyKp4,
	0x65: event.KeyKp5,
	0x66: event.KeyKp6,
	0x67: event.KeyKp7,
	0x68: event.KeyKp8,
	0x69: event.KeyKp9,
	0x6A: event.KeyKpMultiply,
	0x6B: event.KeyKpPlus,
	0x6D: event.KeyKpMinus,
	0x6E: event.KeyKpDelete,
	0x6F: event.KeyKpDivide,
	0x70: event.KeyF1,
	0x71: event.KeyF2,
	0x72: event.KeyF3,
	0x73: event.KeyF4,
	0x74: event.KeyF5,
	0x75: event.KeyF6,
	0x76: event.KeyF7,
	0x77: event.KeyF8,
	0x78: event.KeyF9,
	0x79: event.KeyF10,
	0x7A: event.KeyF11,
	0x7B: event.KeyF12,
	0x90: event.KeyNumLock,
	0x91: event.KeyScrollLock,
	0xA0: event.KeyShiftLeft,
	0xA1: event.KeyShiftRight,
	0xA2: event.KeyControlLeft,
	0xA3: event.KeyControlRight,
	0xA4: event.KeyAlt,
	0xA5: event.KeyAltGr,
	0xBA: event.KeySemiColon,
	0xBB: event.KeyEqual,
	0xBC: event.KeyComma,
	0xBD: event.KeyMinus,
	0xBE: event.KeyDot,
	0xBF: event.KeySlash,
	0xC0: event.KeyBackQuote,
	0xDB: event.KeyLeftBracket,
	0xDC: event.KeyBackSlash,
	0xDD: event.KeyRightBracket,
	0xDE: event.KeyQuote,
}

// evdevKeys maps Linux KEY_* codes to keys.
var evdevKeys = map[uint16]event.Key{
	1:     event.KeyEscape,
	2:     event.KeyNum1,
	3:     event.KeyNum2,
	4:     event.KeyNum3,
	5:     event.KeyNum4,
	6:     event.KeyNum5,
	7:     event.KeyNum6,
	8:     event.KeyNum7,
	9:     event.KeyNum8,
	10:    event.KeyNum9,
	11:    event.KeyNum0,
	12:    event.KeyMinus,
	13:    event.KeyEqual,
	14:    event.KeyBackspace,
	15:    event.KeyTab,
	16:    event.KeyQ,
	17:    event.KeyW,
	18:    event.KeyE,
	19:    event.KeyR,
	20:    event.KeyT,
	21:    event.KeyY,
	22:    event.KeyU,
	23:    event.KeyI,
	24:    event.KeyO,
	25:    event.KeyP,
	26:    event.KeyLeftBracket,
	27:    event.KeyRightBracket,
	28:    event.KeyReturn,
	29:    event.KeyControlLeft,
	30:    event.KeyA,
	31:    event.KeyS,
	32:    event.KeyD,
	33:    event.KeyF,
	34:    event.KeyG,
	35:    event.KeyH,
	36:    event.KeyJ,
	37:    event.KeyK,
	38:    event.KeyL,
	39:    event.KeySemiColon,
	40:    event.KeyQuote,
	41:    event.KeyBackQuote,
	42:    event.KeyShiftLeft,
	43:    event.KeyBackSlash,
	44:    event.KeyZ,
	45:    event.KeyX,
	46:    event.KeyC,
	47:    event.KeyV,
	48:    event.KeyB,
	49:    event.KeyN,
	50:    event.KeyM,
	51:    event.KeyComma,
	52:    event.KeyDot,
	53:    event.KeySlash,
	54:    event.KeyShiftRight,
	55:    event.KeyKpMultiply,
	56:    event.KeyAlt,
	57:    event.KeySpace,
	58:    event.KeyCapsLock,
	59:    event.KeyF1,
	60:    event.KeyF2,
	61:    event.KeyF3,
	62:    event.KeyF4,
	63:    event.KeyF5,
	64:    event.KeyF6,
	65:    event.KeyF7,
	66:    event.KeyF8,
	67:    event.KeyF9,
	68:    event.KeyF10,
	69:    event.KeyNumLock,
	70:    event.KeyScrollLock,
	71:    event.KeyKp7,
	72:    event.KeyKp8,
	73:    event.KeyKp9,
	74:    event.KeyKpMinus,
	75:    event.KeyKp4,
	76:    event.KeyKp5,
	77:    event.KeyKp6,
	78:    event.KeyKpPlus,
	79:    event.KeyKp1,
	80:    event.KeyKp2,
	81:    event.KeyKp3,
	82:    event.KeyKp0,
	83:    event.KeyKpDelete,
	87:    event.KeyF11,
	88:    event.KeyF12,
	96:    event.KeyKpReturn,
	97:    event.KeyControlRight,
	98:    event.KeyKpDivide,
	99:    event.KeyPrintScreen,
	100:   event.KeyAltGr,
	102:   event.KeyHome,
	103:   event.KeyUpArrow,
	104:   event.KeyPageUp,
	105:   event.KeyLeftArrow,
	106:   event.KeyRightArrow,
	107:   event.KeyEnd,
	108:   event.KeyDownArrow,
	109:   event.KeyPageDown,
	110:   event.KeyInsert,
	111:   event.KeyDelete,
	119:   event.KeyPause,
	125:   event.KeyMetaLeft,
	126:   event.KeyMetaRight,
	0x1d0: event.KeyFunction,
}

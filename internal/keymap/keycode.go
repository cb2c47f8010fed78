package keymap

import (
	"strconv"
	"strings"
)

// Keycode is a Linux evdev key code (the KEY_* numbering of
// linux/input-event-codes.h). Physical positions are named after the US
// legend regardless of the layout that is active on the host.
type Keycode uint16

// Key codes used by the built-in layouts and accepted in override specs.
const (
	KeyReserved   Keycode = 0
	KeyEsc        Keycode = 1
	Key1          Keycode = 2
	Key2          Keycode = 3
	Key3          Keycode = 4
	Key4          Keycode = 5
	Key5          Keycode = 6
	Key6          Keycode = 7
	Key7          Keycode = 8
	Key8          Keycode = 9
	Key9          Keycode = 10
	Key0          Keycode = 11
	KeyMinus      Keycode = 12
	KeyEqual      Keycode = 13
	KeyBackspace  Keycode = 14
	KeyTab        Keycode = 15
	KeyQ          Keycode = 16
	KeyW          Keycode = 17
	KeyE          Keycode = 18
	KeyR          Keycode = 19
	KeyT          Keycode = 20
	KeyY          Keycode = 21
	KeyU          Keycode = 22
	KeyI          Keycode = 23
	KeyO          Keycode = 24
	KeyP          Keycode = 25
	KeyLeftBrace  Keycode = 26 // [ and {
	KeyRightBrace Keycode = 27 // ] and }
	KeyEnter      Keycode = 28
	KeyLeftCtrl   Keycode = 29
	KeyA          Keycode = 30
	KeyS          Keycode = 31
	KeyD          Keycode = 32
	KeyF          Keycode = 33
	KeyG          Keycode = 34
	KeyH          Keycode = 35
	KeyJ          Keycode = 36
	KeyK          Keycode = 37
	KeyL          Keycode = 38
	KeySemicolon  Keycode = 39 // ; and : (M on AZERTY)
	KeyApostrophe Keycode = 40
	KeyGrave      Keycode = 41
	KeyLeftShift  Keycode = 42
	KeyBackslash  Keycode = 43
	KeyZ          Keycode = 44
	KeyX          Keycode = 45
	KeyC          Keycode = 46
	KeyV          Keycode = 47
	KeyB          Keycode = 48
	KeyN          Keycode = 49
	KeyM          Keycode = 50
	KeyComma      Keycode = 51
	KeyDot        Keycode = 52
	KeySlash      Keycode = 53
	KeyRightShift Keycode = 54
	KeyKpAsterisk Keycode = 55
	KeyLeftAlt    Keycode = 56
	KeySpace      Keycode = 57
	KeyCapsLock   Keycode = 58
	KeyNumLock    Keycode = 69
	KeyKp7        Keycode = 71
	KeyKp8        Keycode = 72
	KeyKp9        Keycode = 73
	KeyKpMinus    Keycode = 74
	KeyKp4        Keycode = 75
	KeyKp5        Keycode = 76
	KeyKp6        Keycode = 77
	KeyKpPlus     Keycode = 78
	KeyKp1        Keycode = 79
	KeyKp2        Keycode = 80
	KeyKp3        Keycode = 81
	KeyKp0        Keycode = 82
	KeyKpDot      Keycode = 83
	Key102nd      Keycode = 86 // <> key next to left shift on ISO boards
	KeyKpEnter    Keycode = 96
	KeyRightCtrl  Keycode = 97
	KeyKpSlash    Keycode = 98
	KeyRightAlt   Keycode = 100 // AltGr
	KeyHome       Keycode = 102
	KeyUp         Keycode = 103
	KeyPageUp     Keycode = 104
	KeyLeft       Keycode = 105
	KeyRight      Keycode = 106
	KeyEnd        Keycode = 107
	KeyDown       Keycode = 108
	KeyPageDown   Keycode = 109
	KeyInsert     Keycode = 110
	KeyDelete     Keycode = 111
)

// KeyName maps key codes to their evdev names.
var KeyName = map[Keycode]string{
	KeyEsc: "KEY_ESC",

	Key1: "KEY_1", Key2: "KEY_2", Key3: "KEY_3", Key4: "KEY_4", Key5: "KEY_5",
	Key6: "KEY_6", Key7: "KEY_7", Key8: "KEY_8", Key9: "KEY_9", Key0: "KEY_0",

	KeyA: "KEY_A", KeyB: "KEY_B", KeyC: "KEY_C", KeyD: "KEY_D", KeyE: "KEY_E", KeyF: "KEY_F", KeyG: "KEY_G",
	KeyH: "KEY_H", KeyI: "KEY_I", KeyJ: "KEY_J", KeyK: "KEY_K", KeyL: "KEY_L", KeyM: "KEY_M", KeyN: "KEY_N",
	KeyO: "KEY_O", KeyP: "KEY_P", KeyQ: "KEY_Q", KeyR: "KEY_R", KeyS: "KEY_S", KeyT: "KEY_T", KeyU: "KEY_U",
	KeyV: "KEY_V", KeyW: "KEY_W", KeyX: "KEY_X", KeyY: "KEY_Y", KeyZ: "KEY_Z",

	KeyMinus:      "KEY_MINUS",
	KeyEqual:      "KEY_EQUAL",
	KeyBackspace:  "KEY_BACKSPACE",
	KeyTab:        "KEY_TAB",
	KeyLeftBrace:  "KEY_LEFTBRACE",
	KeyRightBrace: "KEY_RIGHTBRACE",
	KeyEnter:      "KEY_ENTER",
	KeySemicolon:  "KEY_SEMICOLON",
	KeyApostrophe: "KEY_APOSTROPHE",
	KeyGrave:      "KEY_GRAVE",
	KeyBackslash:  "KEY_BACKSLASH",
	KeyComma:      "KEY_COMMA",
	KeyDot:        "KEY_DOT",
	KeySlash:      "KEY_SLASH",
	KeySpace:      "KEY_SPACE",
	Key102nd:      "KEY_102ND",
	KeyCapsLock:   "KEY_CAPSLOCK",

	KeyLeftCtrl:   "KEY_LEFTCTRL",
	KeyRightCtrl:  "KEY_RIGHTCTRL",
	KeyLeftShift:  "KEY_LEFTSHIFT",
	KeyRightShift: "KEY_RIGHTSHIFT",
	KeyLeftAlt:    "KEY_LEFTALT",
	KeyRightAlt:   "KEY_RIGHTALT",

	KeyNumLock:    "KEY_NUMLOCK",
	KeyKp0:        "KEY_KP0",
	KeyKp1:        "KEY_KP1",
	KeyKp2:        "KEY_KP2",
	KeyKp3:        "KEY_KP3",
	KeyKp4:        "KEY_KP4",
	KeyKp5:        "KEY_KP5",
	KeyKp6:        "KEY_KP6",
	KeyKp7:        "KEY_KP7",
	KeyKp8:        "KEY_KP8",
	KeyKp9:        "KEY_KP9",
	KeyKpSlash:    "KEY_KPSLASH",
	KeyKpAsterisk: "KEY_KPASTERISK",
	KeyKpMinus:    "KEY_KPMINUS",
	KeyKpPlus:     "KEY_KPPLUS",
	KeyKpDot:      "KEY_KPDOT",
	KeyKpEnter:    "KEY_KPENTER",

	KeyHome:     "KEY_HOME",
	KeyEnd:      "KEY_END",
	KeyPageUp:   "KEY_PAGEUP",
	KeyPageDown: "KEY_PAGEDOWN",
	KeyInsert:   "KEY_INSERT",
	KeyDelete:   "KEY_DELETE",
	KeyUp:       "KEY_UP",
	KeyDown:     "KEY_DOWN",
	KeyLeft:     "KEY_LEFT",
	KeyRight:    "KEY_RIGHT",
}

var keyByName = func() map[string]Keycode {
	m := make(map[string]Keycode, len(KeyName))
	for code, name := range KeyName {
		m[name] = code
	}
	return m
}()

// KeyByName looks up a key code by its evdev name. The lookup is
// case-insensitive and the KEY_ prefix is optional.
func KeyByName(name string) (Keycode, bool) {
	n := strings.ToUpper(strings.TrimSpace(name))
	if !strings.HasPrefix(n, "KEY_") {
		n = "KEY_" + n
	}
	code, ok := keyByName[n]
	return code, ok
}

// String returns the evdev name of the key, or KEY_<n> for codes
// without a registered name.
func (k Keycode) String() string {
	if name, ok := KeyName[k]; ok {
		return name
	}
	return "KEY_" + strconv.Itoa(int(k))
}


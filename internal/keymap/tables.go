package keymap

func init() {
	register(newUS(LayoutUS, "US QWERTY"))
	register(newUS(LayoutENIN, "English (India), same positions as US QWERTY"))
	register(newFRAzerty())
	register(newOVH())
}

// table is a builder for layout maps.
type table map[rune]KeySpec

func (t table) set(r rune, code Keycode, mods Modifier) { t[r] = Key(code, mods) }

// pair maps the unshifted and shifted legends of one key.
func (t table) pair(code Keycode, plain, shifted rune) {
	t.set(plain, code, 0)
	t.set(shifted, code, ModShift)
}

// letters maps lowercase and uppercase letters; pos gives the physical
// key for each of a..z.
func (t table) letters(pos map[rune]Keycode) {
	for r := 'a'; r <= 'z'; r++ {
		code := pos[r]
		t.set(r, code, 0)
		t.set(r-'a'+'A', code, ModShift)
	}
}

func (t table) whitespace() {
	t.set(' ', KeySpace, 0)
	t.set('\t', KeyTab, 0)
	t.set('\n', KeyEnter, 0)
}

var digitRow = [10]Keycode{Key0, Key1, Key2, Key3, Key4, Key5, Key6, Key7, Key8, Key9}

var qwertyLetters = map[rune]Keycode{
	'a': KeyA, 'b': KeyB, 'c': KeyC, 'd': KeyD, 'e': KeyE, 'f': KeyF, 'g': KeyG,
	'h': KeyH, 'i': KeyI, 'j': KeyJ, 'k': KeyK, 'l': KeyL, 'm': KeyM, 'n': KeyN,
	'o': KeyO, 'p': KeyP, 'q': KeyQ, 'r': KeyR, 's': KeyS, 't': KeyT, 'u': KeyU,
	'v': KeyV, 'w': KeyW, 'x': KeyX, 'y': KeyY, 'z': KeyZ,
}

// azertyLetters differs from QWERTY for a, q, w, z and m.
var azertyLetters = func() map[rune]Keycode {
	m := make(map[rune]Keycode, len(qwertyLetters))
	for r, c := range qwertyLetters {
		m[r] = c
	}
	m['a'] = KeyQ
	m['q'] = KeyA
	m['z'] = KeyW
	m['w'] = KeyZ
	m['m'] = KeySemicolon
	return m
}()

func usTable() table {
	t := table{}
	t.letters(qwertyLetters)

	shifted := []rune(")!@#$%^&*(")
	for d, code := range digitRow {
		t.pair(code, rune('0'+d), shifted[d])
	}

	t.pair(KeyMinus, '-', '_')
	t.pair(KeyEqual, '=', '+')
	t.pair(KeyLeftBrace, '[', '{')
	t.pair(KeyRightBrace, ']', '}')
	t.pair(KeyBackslash, '\\', '|')
	t.pair(KeySemicolon, ';', ':')
	t.pair(KeyApostrophe, '\'', '"')
	t.pair(KeyComma, ',', '<')
	t.pair(KeyDot, '.', '>')
	t.pair(KeySlash, '/', '?')
	t.pair(KeyGrave, '`', '~')

	t.whitespace()
	return t
}

func newUS(name, desc string) *Layout {
	return &Layout{name: name, description: desc, keys: usTable()}
}

// newFRAzerty follows the xkb "fr" basic variant.
func newFRAzerty() *Layout {
	t := table{}
	t.letters(azertyLetters)

	// Digits need Shift; the unshifted top row carries symbols.
	top := []rune("à&é\"'(-è_ç")
	for d, code := range digitRow {
		t.pair(code, top[d], rune('0'+d))
	}

	t.pair(KeyMinus, ')', '°')
	t.pair(KeyEqual, '=', '+')
	t.pair(KeyRightBrace, '$', '£')
	t.pair(KeyApostrophe, 'ù', '%')
	t.pair(KeyBackslash, '*', 'µ')
	t.pair(Key102nd, '<', '>')
	t.pair(KeyM, ',', '?')
	t.pair(KeyComma, ';', '.')
	t.pair(KeyDot, ':', '/')
	t.pair(KeySlash, '!', '§')
	t.set('²', KeyGrave, 0)

	// Third level.
	t.set('~', Key2, ModAltGr)
	t.set('#', Key3, ModAltGr)
	t.set('{', Key4, ModAltGr)
	t.set('[', Key5, ModAltGr)
	t.set('|', Key6, ModAltGr)
	t.set('`', Key7, ModAltGr)
	t.set('\\', Key8, ModAltGr)
	t.set('^', Key9, ModAltGr)
	t.set('@', Key0, ModAltGr)
	t.set(']', KeyMinus, ModAltGr)
	t.set('}', KeyEqual, ModAltGr)
	t.set('¤', KeyRightBrace, ModAltGr)
	t.set('€', KeyE, ModAltGr)

	t.whitespace()

	// AltGr symbols depend on the host's xkb options; typing them through
	// the escape avoids dead-key surprises.
	prefer := map[rune]bool{}
	for _, r := range "`{}[]|\\^@" {
		prefer[r] = true
	}
	return &Layout{
		name:        LayoutFRAzerty,
		description: "French AZERTY (classic), digits on Shift, AltGr symbols",
		keys:        t,
		preferEsc:   prefer,
	}
}

// newOVH is the OVH KVM console layout: AZERTY letters, US symbols,
// keypad digits.
func newOVH() *Layout {
	t := usTable()
	t.letters(azertyLetters)

	for d, code := range keypadDigits {
		t.set(rune('0'+d), code, 0)
	}
	t.set('/', KeyKpSlash, 0)
	t.set('-', KeyKpMinus, 0)

	t.set('>', KeyComma, ModShift)
	t.set('<', KeySemicolon, ModShift)
	t.set('.', KeyComma, 0)
	t.set('|', Key102nd, ModShift)
	t.set('_', KeyMinus, ModShift)

	return &Layout{
		name:        LayoutOVH,
		description: "OVH KVM: AZERTY letters, US symbols, keypad digits",
		keys:        t,
		keypadOnly:  true,
	}
}

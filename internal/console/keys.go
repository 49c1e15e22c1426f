package console

import "unicode/utf8"

// Key identifies a non-character key.
type Key int

const (
	KeyRune Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyDelete
	KeyEscape
	KeyEnter
	KeyBackspace
	KeyInterrupt
	KeyUnknown
)

// keyEvent is one decoded key press. Rune is set for KeyRune.
type keyEvent struct {
	Key  Key
	Rune rune
}

// parseKeys decodes one read from a raw terminal. Escape sequences arrive in
// a single read, so a lone ESC byte is the Escape key.
func parseKeys(buf []byte) []keyEvent {
	var events []keyEvent
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		switch {
		case b == 0x1b:
			if i+2 < len(buf) && (buf[i+1] == '[' || buf[i+1] == 'O') {
				ev, n := parseCSI(buf[i+2:])
				events = append(events, ev)
				i += 1 + n
				continue
			}
			events = append(events, keyEvent{Key: KeyEscape})
		case b == '\r' || b == '\n':
			events = append(events, keyEvent{Key: KeyEnter})
		case b == 0x7f || b == 0x08:
			events = append(events, keyEvent{Key: KeyBackspace})
		case b == 0x03 || b == 0x04:
			events = append(events, keyEvent{Key: KeyInterrupt})
		case b < 0x20:
			events = append(events, keyEvent{Key: KeyUnknown})
		default:
			r, size := utf8.DecodeRune(buf[i:])
			events = append(events, keyEvent{Key: KeyRune, Rune: r})
			i += size - 1
		}
	}
	return events
}

// parseCSI decodes the tail of "ESC [" and returns how many bytes it used.
func parseCSI(seq []byte) (keyEvent, int) {
	switch seq[0] {
	case 'A':
		return keyEvent{Key: KeyUp}, 1
	case 'B':
		return keyEvent{Key: KeyDown}, 1
	case 'C':
		return keyEvent{Key: KeyRight}, 1
	case 'D':
		return keyEvent{Key: KeyLeft}, 1
	}

	// Parameterised sequences end in '~', e.g. ESC [ 3 ~ for Delete.
	for n, b := range seq {
		if b == '~' {
			if string(seq[:n]) == "3" {
				return keyEvent{Key: KeyDelete}, n + 1
			}
			return keyEvent{Key: KeyUnknown}, n + 1
		}
		if b >= 0x40 && b <= 0x7e {
			return keyEvent{Key: KeyUnknown}, n + 1
		}
	}
	return keyEvent{Key: KeyUnknown}, len(seq)
}

type action int

const (
	actionNone action = iota
	actionNext
	actionPrevious
	actionPause
	actionDelete
	actionOverlay
	actionUsage
	actionRotate
	actionVolumeUp
	actionVolumeDown
	actionMute
	actionShowFile
	actionQuit
)

// actionFor maps a key to what it does. Outside preview any unbound key
// ends the screensaver; in preview unbound keys are ignored.
func actionFor(ev keyEvent, preview bool) action {
	switch ev.Key {
	case KeyRight:
		return actionNext
	case KeyLeft:
		return actionPrevious
	case KeyUp:
		return actionVolumeUp
	case KeyDown:
		return actionVolumeDown
	case KeyDelete:
		return actionDelete
	case KeyEscape, KeyInterrupt:
		return actionQuit
	case KeyRune:
		switch ev.Rune {
		case 'n', 'N':
			return actionNext
		case 'b', 'B':
			return actionPrevious
		case 'p', 'P', ' ':
			return actionPause
		case 'd', 'D':
			return actionDelete
		case 'i', 'I':
			return actionOverlay
		case 'h', 'H', '?':
			return actionUsage
		case 'r', 'R':
			return actionRotate
		case '0':
			return actionMute
		case 's', 'S':
			return actionShowFile
		case 'q', 'Q':
			return actionQuit
		case '+':
			return actionVolumeUp
		case '-':
			return actionVolumeDown
		}
	}
	if preview {
		return actionNone
	}
	return actionQuit
}

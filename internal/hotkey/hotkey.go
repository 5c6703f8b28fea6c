// Package hotkey parses and formats global toggle-shortcut chords written as
// "cmd+ctrl+alt+shift+=": zero or more modifiers followed by exactly one key,
// joined by '+'.
package hotkey

import (
	"errors"
	"fmt"
	"strings"
)

// Default is the stock toggle chord (Hyper + =).
const Default = "cmd+ctrl+alt+shift+="

// Parse errors.
var (
	ErrEmpty           = errors.New("empty hotkey")
	ErrUnknownModifier = errors.New("unknown modifier")
	ErrUnknownKey      = errors.New("unknown key")
)

// Chord is one parsed shortcut: a modifier set plus a single canonical key
// name.
type Chord struct {
	Super bool
	Ctrl  bool
	Alt   bool
	Shift bool
	Key   string
}

// Parse decodes a chord string. The last '+'-separated token is the key;
// everything before it must be a modifier. Matching is case-insensitive and
// accepts the common aliases (cmd/command/super/meta, ctrl/control,
// alt/option, "equal" for "=", and so on).
func Parse(s string) (Chord, error) {
	parts := strings.Split(strings.TrimSpace(s), "+")

	// A trailing '+' means the key itself is '+': "ctrl++" splits into
	// ["ctrl", "", ""].
	if len(parts) >= 2 && parts[len(parts)-1] == "" && parts[len(parts)-2] == "" {
		parts = append(parts[:len(parts)-2], "+")
	}
	if len(parts) == 0 || (len(parts) == 1 && parts[0] == "") {
		return Chord{}, ErrEmpty
	}

	var c Chord
	for _, part := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "cmd", "command", "super", "meta":
			c.Super = true
		case "ctrl", "control":
			c.Ctrl = true
		case "alt", "option":
			c.Alt = true
		case "shift":
			c.Shift = true
		default:
			return Chord{}, fmt.Errorf("%w: %q", ErrUnknownModifier, part)
		}
	}

	key, ok := canonicalKey(parts[len(parts)-1])
	if !ok {
		return Chord{}, fmt.Errorf("%w: %q", ErrUnknownKey, parts[len(parts)-1])
	}
	c.Key = key
	return c, nil
}

// String formats the chord in canonical lowercase order:
// cmd, ctrl, alt, shift, key.
func (c Chord) String() string {
	parts := make([]string, 0, 5)
	if c.Super {
		parts = append(parts, "cmd")
	}
	if c.Ctrl {
		parts = append(parts, "ctrl")
	}
	if c.Alt {
		parts = append(parts, "alt")
	}
	if c.Shift {
		parts = append(parts, "shift")
	}
	parts = append(parts, c.Key)
	return strings.Join(parts, "+")
}

// Validate reports whether s parses as a chord.
func Validate(s string) error {
	_, err := Parse(s)
	return err
}

// keyAliases maps spelled-out key names to their canonical form. Letters,
// digits, and f-keys are handled structurally in canonicalKey.
var keyAliases = map[string]string{
	"equal":        "=",
	"minus":        "-",
	"bracketleft":  "[",
	"bracketright": "]",
	"backslash":    `\`,
	"semicolon":    ";",
	"quote":        "'",
	"backquote":    "`",
	"comma":        ",",
	"period":       ".",
	"slash":        "/",
	"return":       "enter",
	"esc":          "escape",
}

// namedKeys are canonical multi-character key names accepted as-is.
var namedKeys = map[string]bool{
	"space":     true,
	"enter":     true,
	"tab":       true,
	"escape":    true,
	"backspace": true,
	"delete":    true,
	"up":        true,
	"down":      true,
	"left":      true,
	"right":     true,
}

// canonicalKey normalizes one key token, reporting whether it is recognized.
func canonicalKey(raw string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if alias, ok := keyAliases[key]; ok {
		return alias, true
	}
	if namedKeys[key] {
		return key, true
	}
	if len(key) == 1 {
		ch := key[0]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9':
			return key, true
		case strings.ContainsRune("=-[]\\;'`,./+", rune(ch)):
			return key, true
		}
	}
	if len(key) == 2 || len(key) == 3 {
		if key[0] == 'f' {
			n := key[1:]
			switch n {
			case "1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12":
				return key, true
			}
		}
	}
	return "", false
}

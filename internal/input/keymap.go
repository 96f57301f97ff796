package input

import (
	"fmt"
	"sort"
	"strings"
)

// Command names an operator action on the countdown.
type Command string

const (
	CommandStart  Command = "start"
	CommandStop   Command = "stop"
	CommandPause  Command = "pause"
	CommandExtend Command = "extend"
)

// Commander is the command surface of the countdown engine.
type Commander interface {
	Start()
	Stop()
	Pause()
	Extend()
}

// Keymap maps key names to commands.
type Keymap map[string]Command

// DefaultKeymap binds the number row: 1 start, 2 stop, 3 pause, 4 extend.
func DefaultKeymap() Keymap {
	return Keymap{
		"1": CommandStart,
		"2": CommandStop,
		"3": CommandPause,
		"4": CommandExtend,
	}
}

// ParseCommand validates a command name.
func ParseCommand(name string) (Command, error) {
	command := Command(strings.ToLower(strings.TrimSpace(name)))
	switch command {
	case CommandStart, CommandStop, CommandPause, CommandExtend:
		return command, nil
	default:
		return "", fmt.Errorf("unknown command %q", name)
	}
}

// FromBindings builds a keymap from key → command-name pairs, starting from
// the default bindings. Unknown commands are reported and skipped.
func FromBindings(bindings map[string]string) (Keymap, error) {
	keymap := DefaultKeymap()
	if len(bindings) == 0 {
		return keymap, nil
	}

	for key, command := range keymap {
		for _, name := range bindings {
			if parsed, err := ParseCommand(name); err == nil && parsed == command {
				delete(keymap, key)
			}
		}
	}

	var invalid []string
	for key, name := range bindings {
		command, err := ParseCommand(name)
		normalized := NormalizeKey(key)
		if err != nil || normalized == "" {
			invalid = append(invalid, key)
			continue
		}
		keymap[normalized] = command
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		return keymap, fmt.Errorf("invalid key bindings: %s", strings.Join(invalid, ", "))
	}
	return keymap, nil
}

// NormalizeKey trims key and upper-cases single letters, which is how the
// window toolkit names letter keys.
func NormalizeKey(key string) string {
	key = strings.TrimSpace(key)
	if len(key) == 1 {
		return strings.ToUpper(key)
	}
	return key
}

// Lookup returns the command bound to key.
func (keymap Keymap) Lookup(key string) (Command, bool) {
	command, ok := keymap[NormalizeKey(key)]
	return command, ok
}

// Dispatch runs the command bound to key on target and reports whether a
// binding existed. Preconditions stay with the target.
func (keymap Keymap) Dispatch(key string, target Commander) bool {
	command, ok := keymap.Lookup(key)
	if !ok {
		return false
	}
	return Run(command, target)
}

// Run invokes command on target.
func Run(command Command, target Commander) bool {
	switch command {
	case CommandStart:
		target.Start()
	case CommandStop:
		target.Stop()
	case CommandPause:
		target.Pause()
	case CommandExtend:
		target.Extend()
	default:
		return false
	}
	return true
}

// Bindings returns the keymap as key → command-name pairs.
func (keymap Keymap) Bindings() map[string]string {
	bindings := make(map[string]string, len(keymap))
	for key, command := range keymap {
		bindings[key] = string(command)
	}
	return bindings
}

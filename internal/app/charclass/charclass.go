// Package charclass maps ASCII characters onto the password character classes.
package charclass

type Class int

const (
	None Class = iota
	Digit
	Uppercase
	Lowercase
	Symbol
)

const (
	Uppercases = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Lowercases = "abcdefghijklmnopqrstuvwxyz"
	Digits     = "0123456789"
)

func (c Class) String() string {
	switch c {
	case Digit:
		return "digit"
	case Uppercase:
		return "uppercase"
	case Lowercase:
		return "lowercase"
	case Symbol:
		return "symbol"
	default:
		return "none"
	}
}

// Classify returns the class of a single character code. Control
// characters, DEL and anything above 0x7E are None.
func Classify(c rune) Class {
	switch {
	case c >= '0' && c <= '9':
		return Digit
	case c >= 'A' && c <= 'Z':
		return Uppercase
	case c >= 'a' && c <= 'z':
		return Lowercase
	case c >= 0x20 && c <= 0x2F,
		c >= 0x3A && c <= 0x40,
		c >= 0x5B && c <= 0x60,
		c >= 0x7B && c <= 0x7E:
		return Symbol
	default:
		return None
	}
}

package url

import (
	"errors"
	"fmt"
)

// split raw string at first at rune found until breakOn rune is found.
// It returns the string before at rune, the string between at and breakOn rune, and an error if encountered.
// If keepAt is true, at rune will be kept inside the second returned value.
// A backslash escapes the rune that follows it: escaped at and breakOn runes do
// not match, and they appear without the backslash in the first returned value.
func splitAndBreak(raw string, at rune, breakOn rune, keepAt bool, checkNonEmptyField string) (string, string, error) {
	var split = ""
	var unescaped []rune
	escaped := false
	for i, r := range raw {
		if escaped {
			unescaped = append(unescaped, r)
			escaped = false
			continue
		} else if r == '\\' {
			escaped = true
			continue
		} else if r == breakOn {
			break
		} else if r == at {
			split = string(unescaped)
			rawIndex := i
			if !keepAt {
				rawIndex += 1
			}
			raw = raw[rawIndex:]
			if i == 0 && len(checkNonEmptyField) > 0 {
				return split, raw, errors.New(fmt.Sprintf("empty %s specified", checkNonEmptyField))
			}
			break
		}
		unescaped = append(unescaped, r)
	}
	return split, raw, nil
}
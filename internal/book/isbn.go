package book

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

// ErrISBNFormat is returned when a value is not a 13-digit ISBN prefixed with 978 or 979.
var ErrISBNFormat = errors.New("invalid ISBN format: must be a 13-digit ISBN starting with 978 or 979")

var isbn13Pattern = regexp.MustCompile(`^97[89][0-9]{10}$`)

// NormalizeISBN strips hyphens and whitespace from raw and returns the canonical
// PPP-R-GGG-TTTTT-C form. The check digit is not verified.
func NormalizeISBN(raw string) (string, error) {
	digits := stripISBN(raw)
	if !isbn13Pattern.MatchString(digits) {
		return "", ErrISBNFormat
	}
	return digits[0:3] + "-" + digits[3:4] + "-" + digits[4:7] + "-" + digits[7:12] + "-" + digits[12:13], nil
}

func stripISBN(raw string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
}

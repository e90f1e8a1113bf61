package allotment

import "strings"

// minOptionLength is the shortest code that carries all four fields
const minOptionLength = 7

// Option is a decoded preference code
type Option struct {
	Group   string // character 0
	Type    string // character 1
	Course  string // characters 2-3
	College string // characters 4-6
}

// DecodeOption splits a preference code into its fixed-width fields.
// The code is trimmed and upper-cased first; codes shorter than 7 characters
// do not decode. Characters beyond the seventh (e.g. flags) are ignored.
// Field contents are not validated: a nonsense code simply matches no seat bucket.
func DecodeOption(code string) (Option, bool) {
	normalized := []rune(strings.ToUpper(strings.TrimSpace(code)))
	if len(normalized) < minOptionLength {
		return Option{}, false
	}

	return Option{
		Group:   string(normalized[0]),
		Type:    string(normalized[1]),
		Course:  string(normalized[2:4]),
		College: string(normalized[4:7]),
	}, true
}

// AllotCode builds the 11 character allotment code:
// group + type + course + college + the first two characters of the seat category, twice.
func AllotCode(group, typ, course, college string, seatCategory string) string {
	cat := []rune(strings.ToUpper(strings.TrimSpace(seatCategory)))
	if len(cat) > 2 {
		cat = cat[:2]
	}
	cat2 := string(cat)
	return group + typ + course + college + cat2 + cat2
}

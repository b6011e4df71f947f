package matching

import (
	"strings"
	"unicode"
)

// soundexCodes groups consonants that sound alike, indexed by letter. W joins
// the labials, unlike classic Soundex.
var soundexCodes = [26]byte{
	'0', '1', '2', '3', '0', '1', '2', '0', '0', '2', '2', '4', '5',
	'5', '0', '1', '2', '6', '2', '3', '0', '1', '1', '2', '0', '2',
}

// Soundex returns a six character phonetic code for a player name.
func Soundex(name string) string {
	var letters []byte
	for _, r := range strings.ToUpper(name) {
		if r < unicode.MaxASCII && unicode.IsLetter(r) {
			letters = append(letters, byte(r))
		}
	}
	if len(letters) == 0 {
		return ""
	}

	code := []byte{letters[0]}
	last := soundexCodes[letters[0]-'A']
	for _, c := range letters[1:] {
		if len(code) == 6 {
			break
		}
		d := soundexCodes[c-'A']
		if d != '0' && d != last {
			code = append(code, d)
		}
		if d != '0' {
			last = d
		}
	}
	for len(code) < 6 {
		code = append(code, '0')
	}
	return string(code)
}

package tweet

import (
	"regexp"
	"strings"
	"unicode/utf16"

	"github.com/samber/lo"
)

// MaxTweetLength is the exclusive upper bound on the length of a tweet once
// links are removed. Length is measured in UTF-16 code units, so a character
// outside the Basic Multilingual Plane counts twice.
const MaxTweetLength = 140

// lineChar matches any character except a line terminator: \n, \r, U+0085,
// U+2028 and U+2029.
const lineChar = `[^\n\r\x{85}\x{2028}\x{2029}]`

// linkPattern matches a whole string (or word) that contains an http or
// https link on a single line.
var linkPattern = regexp.MustCompile(`^(` + lineChar + `*)https?://(` + lineChar + `*)$`)

// IsValid reports whether text can be published. Links do not count toward
// the length limit: words carrying a link are dropped before measuring.
func IsValid(text string) bool {
	effective := text
	if linkPattern.MatchString(text) {
		effective = stripLinks(text)
	}

	return effective != "" && textLength(effective) < MaxTweetLength
}

// textLength returns the number of UTF-16 code units needed to encode s.
func textLength(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// stripLinks splits text on single spaces, drops every word that contains a
// link and joins the rest back with single spaces. Trailing empty words are
// discarded before filtering, leading and inner ones are kept.
func stripLinks(text string) string {
	words := strings.Split(text, " ")
	words = lo.DropRightWhile(words, func(w string) bool { return w == "" })

	kept := lo.Reject(words, func(w string, _ int) bool {
		return linkPattern.MatchString(w)
	})
	return strings.Join(kept, " ")
}

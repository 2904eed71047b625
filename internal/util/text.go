package util

import (
	"regexp"
	"strings"
	"unicode"
)

var reSpaces = regexp.MustCompile(`\s+`)

// NormalizeSpaces collapses runs of whitespace (including non-breaking
// spaces from PDF extraction) into single spaces and trims the ends.
func NormalizeSpaces(input string) string {
	s := strings.ReplaceAll(input, " ", " ")
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}

const (
	turkishUpper = "ABCÇDEFGĞHIİJKLMNOÖPRSŞTUÜVYZ"
	turkishLower = "abcçdefgğhıijklmnoöprsştuüvyz"
)

// IsTurkishLetter reports whether r belongs to the Turkish alphabet,
// either case.
func IsTurkishLetter(r rune) bool {
	return strings.ContainsRune(turkishUpper, r) || strings.ContainsRune(turkishLower, r)
}

// IsTurkishUpper reports whether r is an uppercase Turkish letter.
func IsTurkishUpper(r rune) bool {
	return strings.ContainsRune(turkishUpper, r)
}

// UppercaseWordRatio walks the words of a line and returns how many carry
// letters at all and how many of those are fully uppercase. Words that are
// mostly digits or punctuation are not counted. Used by the header
// classifiers: a line is header-shaped when most letter-bearing words are
// uppercase.
func UppercaseWordRatio(line string) (letterWords, upperWords int) {
	for _, word := range strings.Fields(line) {
		var clean []rune
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				clean = append(clean, r)
			}
		}
		if len(clean) == 0 {
			continue
		}
		letters := 0
		for _, r := range clean {
			if IsTurkishLetter(r) {
				letters++
			}
		}
		if letters*2 < len(clean) {
			continue
		}
		letterWords++
		upper := true
		for _, r := range clean {
			if IsTurkishLetter(r) && !IsTurkishUpper(r) {
				upper = false
				break
			}
		}
		if upper {
			upperWords++
		}
	}
	return letterWords, upperWords
}

// SplitLines splits extracted text into trimmed lines, dropping nothing:
// empty lines are kept so the preprocessor sees the original sequence.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimRight(p, " \t"))
	}
	return out
}

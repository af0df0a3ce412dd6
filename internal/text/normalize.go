// Package text prepares raw input text for the linguistic front-end.
package text

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
)

// ErrEmptyText is returned when the input text is empty or whitespace-only.
var ErrEmptyText = errors.New("text is empty")

// Normalize prepares raw input text for synthesis.
// It trims surrounding whitespace, normalizes line endings to \n, expands
// common abbreviations, spells out integer numbers, collapses runs of
// whitespace, and rejects empty or whitespace-only input.
func Normalize(s string) (string, error) {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	for _, pair := range abbreviations {
		s = strings.ReplaceAll(s, pair[0], pair[1])
	}

	s = expandNumbers(s)

	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return "", ErrEmptyText
	}

	return s, nil
}

// abbreviations maps common abbreviations to their spoken expansions.
var abbreviations = [][2]string{
	{"Mr.", "Mister"},
	{"Mrs.", "Missus"},
	{"Dr.", "Doctor"},
	{"St.", "Saint"},
	{"Jr.", "Junior"},
	{"Sr.", "Senior"},
	{"vs.", "versus"},
	{"etc.", "etcetera"},
	{"e.g.", "for example"},
	{"i.e.", "that is"},
}

func expandNumbers(s string) string {
	var out strings.Builder

	runes := []rune(s)
	for i := 0; i < len(runes); {
		if !unicode.IsDigit(runes[i]) {
			out.WriteRune(runes[i])
			i++

			continue
		}

		j := i
		for j < len(runes) && unicode.IsDigit(runes[j]) {
			j++
		}

		n, err := strconv.Atoi(string(runes[i:j]))
		if err != nil {
			out.WriteString(string(runes[i:j]))
		} else {
			out.WriteString(spellInteger(n))
		}

		i = j
	}

	return out.String()
}

var onesWords = []string{
	"zero", "one", "two", "three", "four", "five", "six", "seven", "eight",
	"nine", "ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen",
	"sixteen", "seventeen", "eighteen", "nineteen",
}

var tensWords = []string{
	"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy",
	"eighty", "ninety",
}

// spellInteger converts a non-negative integer below one million to words.
// Larger values are read digit by digit.
func spellInteger(n int) string {
	switch {
	case n < 20:
		return onesWords[n]
	case n < 100:
		w := tensWords[n/10]
		if n%10 != 0 {
			w += " " + onesWords[n%10]
		}

		return w
	case n < 1000:
		w := onesWords[n/100] + " hundred"
		if n%100 != 0 {
			w += " " + spellInteger(n%100)
		}

		return w
	case n < 1000000:
		w := spellInteger(n/1000) + " thousand"
		if n%1000 != 0 {
			w += " " + spellInteger(n%1000)
		}

		return w
	default:
		digits := strconv.Itoa(n)
		parts := make([]string, 0, len(digits))

		for _, d := range digits {
			parts = append(parts, onesWords[d-'0'])
		}

		return strings.Join(parts, " ")
	}
}

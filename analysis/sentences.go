package analysis

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Abbreviations that end with a period without terminating a sentence.
// Checked lowercased, without the trailing period.
var abbreviations = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true,
	"sr": true, "jr": true, "st": true, "vs": true, "etc": true,
	"eg": true, "e.g": true, "ie": true, "i.e": true, "cf": true,
	"inc": true, "ltd": true, "co": true, "corp": true, "dept": true,
	"fig": true, "al": true, "no": true, "vol": true, "pp": true,
	"approx": true, "est": true, "min": true, "max": true, "sec": true,
	"jan": true, "feb": true, "mar": true, "apr": true, "jun": true,
	"jul": true, "aug": true, "sep": true, "sept": true, "oct": true,
	"nov": true, "dec": true,
}

// SentenceSpans segments text into sentence byte ranges. It is aware of
// common abbreviations, initials, decimal numbers and ellipses, so
// "Dr. Smith spent $3.50." stays one sentence. Newlines that separate
// paragraphs also terminate sentences.
//
// Spans are trimmed of surrounding whitespace; slicing the text at a span
// yields exactly the sentence.
func SentenceSpans(text string) []Span {
	var spans []Span
	start := skipSpace(text, 0)

	i := start
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])

		switch {
		case r == '\n' && isParagraphBreak(text, i):
			if end := trimEnd(text, start, i); end > start {
				spans = append(spans, Span{Start: start, End: end})
			}
			i = skipSpace(text, i)
			start = i
			continue

		case r == '.' || r == '!' || r == '?':
			end := i + size
			// Swallow runs of terminators: ellipses, "?!", quoted closers.
			for end < len(text) {
				nr, nsize := utf8.DecodeRuneInString(text[end:])
				if nr == '.' || nr == '!' || nr == '?' || nr == '"' || nr == '\'' || nr == ')' {
					end = end + nsize
					continue
				}
				break
			}

			if r == '.' && !terminatesSentence(text, i, end) {
				i = end
				continue
			}

			if e := trimEnd(text, start, end); e > start {
				spans = append(spans, Span{Start: start, End: e})
			}
			i = skipSpace(text, end)
			start = i
			continue
		}

		i += size
	}

	if end := trimEnd(text, start, len(text)); end > start {
		spans = append(spans, Span{Start: start, End: end})
	}
	return spans
}

// SentenceCount returns the number of sentences detected in text.
func SentenceCount(text string) int {
	return len(SentenceSpans(text))
}

// terminatesSentence decides whether the period at dot ends a sentence.
// end is the position just past the terminator run.
func terminatesSentence(text string, dot, end int) bool {
	// Decimal number: digit on both sides.
	if dot > 0 && dot+1 < len(text) &&
		unicode.IsDigit(rune(text[dot-1])) && unicode.IsDigit(rune(text[dot+1])) {
		return false
	}

	word := precedingWord(text, dot)
	lower := strings.ToLower(word)

	// Known abbreviation or a single initial like "J."
	if abbreviations[lower] {
		return false
	}
	if len(word) == 1 && unicode.IsUpper(rune(word[0])) {
		return false
	}

	// End of text always terminates.
	if end >= len(text) {
		return true
	}

	// Require whitespace followed by an uppercase letter, digit or opening
	// quote before calling it a boundary.
	r, _ := utf8.DecodeRuneInString(text[end:])
	if !unicode.IsSpace(r) {
		return false
	}
	next := skipSpace(text, end)
	if next >= len(text) {
		return true
	}
	nr, _ := utf8.DecodeRuneInString(text[next:])
	return unicode.IsUpper(nr) || unicode.IsDigit(nr) || nr == '"' || nr == '\''
}

// precedingWord returns the maximal run of letters and interior periods
// immediately before position i.
func precedingWord(text string, i int) string {
	end := i
	start := i
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:start])
		if unicode.IsLetter(r) || r == '.' {
			start -= size
			continue
		}
		break
	}
	return strings.TrimPrefix(text[start:end], ".")
}

func isParagraphBreak(text string, i int) bool {
	j := i + 1
	for j < len(text) {
		r, size := utf8.DecodeRuneInString(text[j:])
		if r == '\n' {
			return true
		}
		if unicode.IsSpace(r) {
			j += size
			continue
		}
		return false
	}
	return false
}

func skipSpace(text string, i int) int {
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += size
	}
	return i
}

func trimEnd(text string, start, end int) int {
	for end > start {
		r, size := utf8.DecodeLastRuneInString(text[:end])
		if !unicode.IsSpace(r) {
			break
		}
		end -= size
	}
	return end
}

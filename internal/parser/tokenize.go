package parser

import "strings"

// splitQuoted splits text on delim, except inside spans delimited by quote.
// Quote characters toggle the span and are never emitted into a token. A
// trailing delimiter is appended so the final token flushes through the same
// path as the rest. An odd number of quotes leaves the span open to the end
// of the line; no validation is done, the output follows from the toggle.
func splitQuoted(text string, delim, quote byte) []string {
	var tokens []string
	var buf strings.Builder

	inQuote := false
	for i := 0; i < len(text)+1; i++ {
		var c byte
		if i < len(text) {
			c = text[i]
		} else {
			c = delim
		}

		switch {
		case c == quote:
			inQuote = !inQuote
		case c == delim && !inQuote:
			tokens = append(tokens, buf.String())
			buf.Reset()
		default:
			buf.WriteByte(c)
		}
	}

	return tokens
}

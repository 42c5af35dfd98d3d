package chunk

import (
	"bytes"
	"unicode/utf8"
)

// Line breaks are LF only. A CR before an LF is part of the line's content.

func countLineBreaks(text []byte) int {
	return bytes.Count(text, []byte{'\n'})
}

// byteOfLine returns the offset just after the line-th LF in text, or
// len(text) if text has fewer breaks.
func byteOfLine(text []byte, line int) int {
	offset := 0
	for ; line > 0; line-- {
		i := bytes.IndexByte(text[offset:], '\n')
		if i < 0 {
			return len(text)
		}
		offset += i + 1
	}
	return offset
}

// byteOfChar returns the offset of the n-th rune in text, or len(text) if
// text holds n runes or fewer.
func byteOfChar(text []byte, n int) int {
	offset := 0
	for ; n > 0 && offset < len(text); n-- {
		_, size := utf8.DecodeRune(text[offset:])
		offset += size
	}
	return offset
}

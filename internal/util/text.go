package util

import "strings"

// Measurer reports the rendered pixel width of a string.
type Measurer interface {
	Measure(s string) int
}

// MeasureFunc adapts a function into a Measurer.
type MeasureFunc func(s string) int

// Measure implements Measurer.
func (f MeasureFunc) Measure(s string) int { return f(s) }

// Reflow inserts newlines into text so that each line measures less than maxWidth.
// Words are separated by single spaces only; a word wider than maxWidth is kept
// whole on its own line.
func Reflow(text string, maxWidth int, m Measurer) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	lineWidth := 0
	for _, w := range strings.Split(text, " ") {
		word := w + " "
		ww := m.Measure(word)
		lineWidth += ww
		if lineWidth < maxWidth || b.Len() == 0 {
			b.WriteString(word)
			continue
		}
		// close the current line, dropping its trailing space
		s := b.String()
		b.Reset()
		b.WriteString(strings.TrimSuffix(s, " "))
		b.WriteString("\n")
		b.WriteString(word)
		lineWidth = ww
	}
	return strings.TrimSuffix(b.String(), " ")
}

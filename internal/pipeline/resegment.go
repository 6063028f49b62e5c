package pipeline

import "strings"

// EmphasisKind identifies which bold spelling opened a span.
type EmphasisKind int

const (
	// ShortForm is the <strong> spelling. Only its opener delimits fragments.
	ShortForm EmphasisKind = iota
	// LongForm is the <b> spelling.
	LongForm
)

// Tag openers and closers recognized by the tokenizer. Matching is
// case-sensitive and attribute-free, which is what the converter emits.
const (
	shortOpen  = "<strong>"
	shortClose = "</strong>"
	longOpen   = "<b>"
	longClose  = "</b>"
)

// String returns the tag name of the kind.
func (k EmphasisKind) String() string {
	if k == LongForm {
		return "b"
	}
	return "strong"
}

// EmphasisSpan is one located emphasis element in raw markup.
// Start is the offset of the opening '<', End is one past the closing '>'.
type EmphasisSpan struct {
	Kind  EmphasisKind
	Inner string
	Start int
	End   int
}

// Fragment is the slice [Start, End) of raw markup that becomes one paragraph.
type Fragment struct {
	Start int
	End   int
	Span  EmphasisSpan
}

// TokenizeEmphasis scans raw left to right and returns every emphasis span
// in order of appearance. Spans never overlap: scanning resumes after the
// end of each match.
//
// A span is an opener of either spelling followed by the nearest closer of
// either spelling, with no line terminator in between. The closer does not
// have to match the opener's spelling.
func TokenizeEmphasis(raw string) []EmphasisSpan {
	var spans []EmphasisSpan
	pos := 0
	for pos < len(raw) {
		rel := strings.IndexByte(raw[pos:], '<')
		if rel == -1 {
			break
		}
		at := pos + rel

		kind, openLen, ok := openerAt(raw, at)
		if !ok {
			pos = at + 1
			continue
		}

		innerStart := at + openLen
		innerEnd, closeLen, ok := nearestCloser(raw, innerStart)
		if !ok {
			pos = at + 1
			continue
		}

		spans = append(spans, EmphasisSpan{
			Kind:  kind,
			Inner: raw[innerStart:innerEnd],
			Start: at,
			End:   innerEnd + closeLen,
		})
		pos = innerEnd + closeLen
	}
	return spans
}

// openerAt reports whether an emphasis opener starts at offset i.
func openerAt(raw string, i int) (EmphasisKind, int, bool) {
	switch {
	case strings.HasPrefix(raw[i:], shortOpen):
		return ShortForm, len(shortOpen), true
	case strings.HasPrefix(raw[i:], longOpen):
		return LongForm, len(longOpen), true
	}
	return 0, 0, false
}

// nearestCloser finds the first closer of either spelling at or after from.
// It fails when a line terminator appears before any closer.
func nearestCloser(raw string, from int) (at, length int, ok bool) {
	for i := from; i < len(raw); {
		switch {
		case strings.HasPrefix(raw[i:], shortClose):
			return i, len(shortClose), true
		case strings.HasPrefix(raw[i:], longClose):
			return i, len(longClose), true
		}

		if isLineTerminator(raw, i) {
			return 0, 0, false
		}
		i++
	}
	return 0, 0, false
}

// isLineTerminator reports whether a line terminator (\n, \r, U+2028,
// U+2029) starts at i.
func isLineTerminator(raw string, i int) bool {
	switch raw[i] {
	case '\n', '\r':
		return true
	case 0xE2:
		return strings.HasPrefix(raw[i:], "\u2028") || strings.HasPrefix(raw[i:], "\u2029")
	}
	return false
}

// Fragments splits raw into paragraph fragments, one per emphasis span.
//
// Each fragment starts at its span and runs to the next <strong> opener
// strictly after the span's end, or to the end of raw. Only the short-form
// opener is a boundary, so a run of <b> spans without any <strong> collapses
// into a single fragment.
//
// Content before the first span is dropped, and so is any gap between a
// boundary and the next span. Spans lying inside an earlier fragment are
// absorbed by it; starts are therefore never before the previous end.
func Fragments(raw string) []Fragment {
	spans := TokenizeEmphasis(raw)
	if len(spans) == 0 {
		return nil
	}

	frags := make([]Fragment, 0, len(spans))
	pos := 0
	for _, span := range spans {
		if span.Start < pos {
			continue
		}

		end := len(raw)
		if next := strings.Index(raw[span.End:], shortOpen); next != -1 {
			end = span.End + next
		}

		frags = append(frags, Fragment{Start: span.Start, End: end, Span: span})
		pos = end
	}
	return frags
}

// Resegment regroups raw into <p>-wrapped fragments anchored on bold text.
// Markup without any emphasis yields the empty string: the whole input is
// dropped rather than passed through.
func Resegment(raw string) string {
	frags := Fragments(raw)
	if len(frags) == 0 {
		return ""
	}

	var b strings.Builder
	b.Grow(len(raw) + len(frags)*len("<p></p>"))
	for _, f := range frags {
		b.WriteString("<p>")
		b.WriteString(raw[f.Start:f.End])
		b.WriteString("</p>")
	}
	return b.String()
}

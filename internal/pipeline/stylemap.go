package pipeline

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidStyleRule indicates a style map rule could not be parsed.
var ErrInvalidStyleRule = errors.New("invalid style rule")

// DefaultStyleRules are applied on top of the built-in heading mappings.
var DefaultStyleRules = []string{
	"p[style-name='Normal'] => p:fresh",
	"b => strong:fresh",
}

// StyleTarget is the element a document construct maps to.
// Fresh targets are never merged with an adjacent element of the same kind.
type StyleTarget struct {
	Tag   string
	Fresh bool
}

// StyleMap decides which HTML elements paragraphs and formatted runs become.
type StyleMap struct {
	Paragraphs map[string]StyleTarget // keyed by normalized style name
	Default    StyleTarget            // paragraphs without a matching rule
	Bold       StyleTarget
	Italic     StyleTarget
}

var (
	ruleSeparator = regexp.MustCompile(`\s*=>\s*`)
	styleSelector = regexp.MustCompile(`^p\[style-name='([^']+)'\]$`)
	targetTag     = regexp.MustCompile(`^([a-z][a-z0-9]*)(:fresh)?$`)
)

// builtinStyleMap mirrors the converter's implicit mappings: headings to
// h1-h6, bold to strong, italic to em, everything else to p.
func builtinStyleMap() StyleMap {
	sm := StyleMap{
		Paragraphs: make(map[string]StyleTarget, 8),
		Default:    StyleTarget{Tag: "p", Fresh: true},
		Bold:       StyleTarget{Tag: "strong"},
		Italic:     StyleTarget{Tag: "em"},
	}
	for level := 1; level <= 6; level++ {
		name := fmt.Sprintf("heading %d", level)
		sm.Paragraphs[normalizeStyleName(name)] = StyleTarget{Tag: fmt.Sprintf("h%d", level), Fresh: true}
	}
	sm.Paragraphs[normalizeStyleName("Title")] = StyleTarget{Tag: "h1", Fresh: true}
	return sm
}

// DefaultStyleMap returns the built-in mappings with DefaultStyleRules applied.
func DefaultStyleMap() StyleMap {
	sm, err := ParseStyleMap(DefaultStyleRules)
	if err != nil {
		panic("pipeline: default style rules are invalid: " + err.Error())
	}
	return sm
}

// ParseStyleMap applies rules in order over the built-in mappings.
//
// Supported rules:
//
//	p[style-name='Name'] => tag[:fresh]
//	b => tag[:fresh]
//	i => tag[:fresh]
func ParseStyleMap(rules []string) (StyleMap, error) {
	sm := builtinStyleMap()
	for _, rule := range rules {
		rule = strings.TrimSpace(rule)
		if rule == "" || strings.HasPrefix(rule, "#") {
			continue
		}

		parts := ruleSeparator.Split(rule, 2)
		if len(parts) != 2 {
			return StyleMap{}, fmt.Errorf("%w: %q (missing =>)", ErrInvalidStyleRule, rule)
		}

		target, err := parseTarget(parts[1])
		if err != nil {
			return StyleMap{}, fmt.Errorf("%w: %q: %v", ErrInvalidStyleRule, rule, err)
		}

		switch selector := parts[0]; selector {
		case "b":
			sm.Bold = target
		case "i":
			sm.Italic = target
		case "p":
			sm.Default = target
		default:
			m := styleSelector.FindStringSubmatch(selector)
			if m == nil {
				return StyleMap{}, fmt.Errorf("%w: %q (unsupported selector %q)", ErrInvalidStyleRule, rule, selector)
			}
			sm.Paragraphs[normalizeStyleName(m[1])] = target
		}
	}
	return sm, nil
}

func parseTarget(s string) (StyleTarget, error) {
	m := targetTag.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return StyleTarget{}, fmt.Errorf("unsupported target %q", s)
	}
	return StyleTarget{Tag: m[1], Fresh: m[2] != ""}, nil
}

// ParagraphTarget resolves the element for a paragraph style. Style IDs
// ("Heading1") and display names ("heading 1") resolve to the same rule.
func (sm StyleMap) ParagraphTarget(style string) StyleTarget {
	if style != "" {
		if t, ok := sm.Paragraphs[normalizeStyleName(style)]; ok {
			return t
		}
	}
	return sm.Default
}

// normalizeStyleName lowercases and strips whitespace.
func normalizeStyleName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), ""))
}

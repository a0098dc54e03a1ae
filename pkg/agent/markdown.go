package agent

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

// The stripper optimises for "clean enough to parse as JSON", not for a
// faithful Markdown-to-plaintext conversion. Rule order matters: later
// rules assume earlier ones already removed conflicting syntax.
var (
	reHeading    = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	reBoldStar   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	reBoldUnder  = regexp.MustCompile(`__(.*?)__`)
	reItalicStar = regexp.MustCompile(`\*(.*?)\*`)
	reItalicUnd  = regexp.MustCompile(`_(.*?)_`)
	reStrike     = regexp.MustCompile(`~~(.*?)~~`)
	// Inline spans never cross a line; fence markers survive for reFence.
	reInlineCode = regexp.MustCompile("`+([^`\n]+)`+")
	reFence      = regexp.MustCompile("(?s)```\\w*\\n(.*?)```")
	reBlockquote = regexp.MustCompile(`(?m)^>\s+`)
	reHRule      = regexp.MustCompile(`(?m)^[-*]{3,}$`)
	reImage      = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	reLink       = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
	reUnordered  = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	reOrdered    = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	reNewlines   = regexp.MustCompile(`\n{3,}`)
)

// StripMarkdown removes common Markdown syntax from s, preserving the
// semantic text content. It is pure, idempotent and never fails; an
// empty input passes through unchanged.
func StripMarkdown(s string) string {
	if s == "" {
		return s
	}
	s = reHeading.ReplaceAllString(s, "")
	s = reBoldStar.ReplaceAllString(s, "$1")
	s = reBoldUnder.ReplaceAllString(s, "$1")
	s = reItalicStar.ReplaceAllString(s, "$1")
	s = reItalicUnd.ReplaceAllString(s, "$1")
	s = reStrike.ReplaceAllString(s, "$1")
	s = reInlineCode.ReplaceAllString(s, "$1")
	s = reFence.ReplaceAllString(s, "$1")
	s = reBlockquote.ReplaceAllString(s, "")
	s = reHRule.ReplaceAllString(s, "")
	s = reImage.ReplaceAllString(s, "$1")
	s = reLink.ReplaceAllString(s, "$1")
	s = reUnordered.ReplaceAllString(s, "")
	s = reOrdered.ReplaceAllString(s, "")
	s = reNewlines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// UnwrapLanguageTag drops a stray leading "json" token that some agents
// prepend to an otherwise bare JSON body. Anything else passes through
// unchanged.
func UnwrapLanguageTag(s string) string {
	if len(s) < 4 || !strings.EqualFold(s[:4], "json") {
		return s
	}
	rest := s[4:]
	// Only treat it as a language tag when followed by whitespace or the
	// payload itself, never when part of a longer word.
	if rest != "" {
		first := rune(rest[0])
		if !unicode.IsSpace(first) && first != '{' && first != '[' {
			return s
		}
	}
	return strings.TrimSpace(rest)
}

// ExtractJSONPayload locates the outermost balanced {...} or [...]
// substring of s. Preamble and trailing commentary around the payload are
// discarded; an unterminated payload is an error.
func ExtractJSONPayload(s string) (string, error) {
	start := -1
	var opener, closer byte
	for i := 0; i < len(s); i++ {
		if s[i] == '{' || s[i] == '[' {
			start = i
			opener = s[i]
			closer = '}'
			if opener == '[' {
				closer = ']'
			}
			break
		}
	}
	if start == -1 {
		return "", errNoPayload
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", errUnbalancedPayload
}

var (
	errNoPayload         = errors.New("no JSON object or array found")
	errUnbalancedPayload = errors.New("JSON payload is not balanced")
)

package powerkit

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"github.com/pkg/errors"

	"github.com/Pure-Company/powerkit/internal/patcache"
)

// ============================================================================
// Delimiter-bounded patterns
// ============================================================================

// pattern is a compiled `<d>expr<d>flags` pattern. Unicode mode is always
// on; the `a` pseudo-flag is lifted out of the flags into global.
type pattern struct {
	re     *regexp2.Regexp
	global bool
}

var closingDelims = map[rune]rune{
	'(': ')',
	'[': ']',
	'{': '}',
	'<': '>',
}

var flagOptions = map[rune]regexp2.RegexOptions{
	'i': regexp2.IgnoreCase,
	'm': regexp2.Multiline,
	's': regexp2.Singleline,
	'x': regexp2.IgnorePatternWhitespace,
	'n': regexp2.ExplicitCapture,
	'u': regexp2.Unicode,
}

var patterns *patcache.Cache[*pattern]

func init() {
	var err error
	if patterns, err = patcache.New[*pattern](512); err != nil {
		panic(err)
	}
}

// compilePattern parses and compiles src, consulting the shared cache.
func compilePattern(src string) (*pattern, error) {
	if p, ok := patterns.Get(src); ok {
		return p, nil
	}
	p, err := parsePattern(src)
	if err != nil {
		return nil, err
	}
	patterns.Put(src, p)
	return p, nil
}

func parsePattern(src string) (*pattern, error) {
	open, size := utf8.DecodeRuneInString(src)
	if size == 0 {
		return nil, errors.Wrap(ErrPatternSyntax, "empty pattern")
	}
	if open == '\\' || unicode.IsLetter(open) || unicode.IsDigit(open) || unicode.IsSpace(open) {
		return nil, errors.Wrapf(ErrPatternSyntax, "invalid delimiter %q in %q", open, src)
	}
	closing := open
	if c, ok := closingDelims[open]; ok {
		closing = c
	}

	body := src[size:]
	end := findClosingDelim(body, closing)
	if end < 0 {
		return nil, errors.Wrapf(ErrPatternSyntax, "no ending delimiter %q in %q", closing, src)
	}
	expr := body[:end]
	flags := body[end+utf8.RuneLen(closing):]

	opts := regexp2.RegexOptions(regexp2.Unicode)
	p := &pattern{}
	anchored := false
	for _, f := range flags {
		switch {
		case f == 'a':
			p.global = true
		case f == 'A':
			anchored = true
		case f == '\n' || f == '\r' || f == ' ':
		case f == 'S' || f == 'J':
			// Study hints and duplicate names need no engine option.
		case f == 'U' || f == 'D':
			return nil, errors.Wrapf(ErrPatternSyntax, "unsupported modifier %q in %q", f, src)
		default:
			opt, ok := flagOptions[f]
			if !ok {
				return nil, errors.Wrapf(ErrPatternSyntax, "unknown modifier %q in %q", f, src)
			}
			opts |= opt
		}
	}
	if anchored {
		expr = `\G(?:` + expr + `)`
	}

	re, err := regexp2.Compile(expr, opts)
	if err != nil {
		return nil, errors.Wrapf(ErrPatternSyntax, "%s: %v", src, err)
	}
	p.re = re
	return p, nil
}

// findClosingDelim returns the byte offset of the first unescaped
// closing delimiter in body, or -1.
func findClosingDelim(body string, closing rune) int {
	escaped := false
	for i, r := range body {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == closing:
			return i
		}
	}
	return -1
}

// limit returns the replace count for the pattern: all matches when
// global, otherwise the first one.
func (p *pattern) limit() int {
	if p.global {
		return -1
	}
	return 1
}

// matches returns the first match at or after rune offset from, or every
// match when all is set.
func (p *pattern) matches(text []rune, from int, all bool) ([]*regexp2.Match, error) {
	m, err := p.re.FindRunesMatchStartingAt(text, from)
	if err != nil {
		return nil, errors.Wrap(err, "match")
	}
	var out []*regexp2.Match
	for m != nil {
		out = append(out, m)
		if !all {
			break
		}
		if m, err = p.re.FindNextMatch(m); err != nil {
			return nil, errors.Wrap(err, "match")
		}
	}
	return out, nil
}

// convertReplacement rewrites a replacement so that only group
// references reach the engine: `$N`, `${N}`, `${name}` and `\N` (N up
// to two digits) become `${...}`, references to missing groups become
// empty, `\\` becomes `\` and every other `$` is literal.
func convertReplacement(repl string, re *regexp2.Regexp) string {
	if !strings.ContainsAny(repl, `$\`) {
		return repl
	}
	var sb strings.Builder
	for i := 0; i < len(repl); i++ {
		c := repl[i]
		var next byte
		if i+1 < len(repl) {
			next = repl[i+1]
		}
		switch {
		case (c == '\\' || c == '$') && isDigit(next):
			j := i + 1
			for j < len(repl) && j < i+3 && isDigit(repl[j]) {
				j++
			}
			sb.WriteString(groupRef(re, repl[i+1:j]))
			i = j - 1
		case c == '\\' && next == '\\':
			sb.WriteByte('\\')
			i++
		case c == '$' && next == '{':
			end := strings.IndexByte(repl[i+2:], '}')
			if end > 0 && isGroupName(repl[i+2:i+2+end]) {
				sb.WriteString(groupRef(re, repl[i+2:i+2+end]))
				i += 2 + end
				continue
			}
			sb.WriteString("$$")
		case c == '$':
			sb.WriteString("$$")
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// groupRef returns the engine substitution for a numbered or named
// group, or "" when the pattern has no such group.
func groupRef(re *regexp2.Regexp, ref string) string {
	if n, err := strconv.Atoi(ref); err == nil {
		if re.GroupNameFromNumber(n) == "" {
			return ""
		}
		return "${" + strconv.Itoa(n) + "}"
	}
	if re.GroupNumberFromName(ref) < 0 {
		return ""
	}
	return "${" + ref + "}"
}

func isGroupName(s string) bool {
	for _, r := range s {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

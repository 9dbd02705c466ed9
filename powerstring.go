package powerkit

import (
	"fmt"
	"iter"
	"strings"
	"unicode"

	"github.com/dlclark/regexp2"
	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// ============================================================================
// PowerString
// ============================================================================

// PowerString is a mutable wrapper around a Unicode string with an API
// modelled on the ECMAScript String object.
//
// Indices and lengths count code points, not bytes. Out-of-range reads
// return "" or 0 instead of failing. Most methods mutate the wrapped value
// and return the receiver so calls can be chained:
//
//	s := Of("  Hello, World  ").Trim().ToUpperCase()
//	fmt.Println(s) // HELLO, WORLD
type PowerString struct {
	own string
	ref *string
}

// shared is the instance returned by On.
var shared = &PowerString{}

// Of creates a PowerString holding its own copy of s.
func Of(s string) *PowerString {
	p := &PowerString{own: s}
	p.ref = &p.own
	return p
}

// On returns the process-wide shared PowerString bound to *s. Every
// mutation writes through to the caller's variable.
//
// Every call returns the same instance, rebound to the newest argument.
// Do not keep the result beyond the expression that uses it, and do not
// use On from more than one goroutine; use Of for an independent value.
func On(s *string) *PowerString {
	if s == nil {
		shared.own = ""
		s = &shared.own
	}
	shared.ref = s
	return shared
}

// Cast converts a string-like value into a new PowerString. Callers
// replace their own variable with the result.
func Cast(v any) *PowerString {
	switch val := v.(type) {
	case string:
		return Of(val)
	case []byte:
		return Of(string(val))
	case []rune:
		return Of(string(val))
	case *PowerString:
		return Of(val.String())
	case fmt.Stringer:
		return Of(val.String())
	case nil:
		return Of("")
	}
	return Of(fmt.Sprint(v))
}

// FromCharCode returns the string holding the single code point code.
func FromCharCode(code int) string {
	return string(rune(code))
}

func (p *PowerString) ptr() *string {
	if p.ref == nil {
		p.ref = &p.own
	}
	return p.ref
}

func (p *PowerString) runes() []rune {
	return []rune(*p.ptr())
}

// String returns the current value.
func (p *PowerString) String() string {
	return *p.ptr()
}

// S returns the current value. It is shorthand for String.
func (p *PowerString) S() string {
	return *p.ptr()
}

// ============================================================================
// Queries
// ============================================================================

// Length returns the number of code points.
func (p *PowerString) Length() int {
	return len(p.runes())
}

// Count is an alias of Length.
func (p *PowerString) Count() int {
	return p.Length()
}

// CharAt returns the code point at index as a string, or "" when out of
// range. A negative index counts from the end.
func (p *PowerString) CharAt(index int) string {
	return string(mbSubstr(p.runes(), index, 1, true))
}

// CharCodeAt returns the code point at index, or 0 when out of range.
func (p *PowerString) CharCodeAt(index int) int {
	r := mbSubstr(p.runes(), index, 1, true)
	if len(r) == 0 {
		return 0
	}
	return int(r[0])
}

// IndexOf returns the code point index of the first occurrence of search
// at or after from, or -1. A negative from counts from the end.
func (p *PowerString) IndexOf(search string, from int) int {
	hay := p.runes()
	from, ok := normalizeOffset(from, len(hay))
	if !ok {
		return -1
	}
	return indexRunes(hay, []rune(search), from)
}

// LastIndexOf returns the code point index of the last occurrence of
// search, or -1. A non-negative from ignores occurrences starting before
// from; a negative from ignores occurrences starting after length+from.
func (p *PowerString) LastIndexOf(search string, from int) int {
	hay := p.runes()
	needle := []rune(search)
	lo, hi := 0, len(hay)-len(needle)
	if from >= 0 {
		if from > len(hay) {
			return -1
		}
		lo = from
	} else {
		if -from > len(hay) {
			return -1
		}
		hi = min(hi, len(hay)+from)
	}
	for i := hi; i >= lo; i-- {
		if runesHavePrefix(hay[i:], needle) {
			return i
		}
	}
	return -1
}

// Includes reports whether search occurs at or after from.
func (p *PowerString) Includes(search string, from int) bool {
	return p.IndexOf(search, from) != -1
}

// StartsWith reports whether the value contains search at code point
// position pos.
func (p *PowerString) StartsWith(search string, pos int) bool {
	needle := []rune(search)
	return string(mbSubstr(p.runes(), pos, len(needle), true)) == search
}

// EndsWith reports whether the tail of the value starting at
// pos-len(search) equals search. With pos 0 the tail is taken from the
// true end of the value; other positions are offsets from the start,
// or from the end when pos-len(search) is negative.
func (p *PowerString) EndsWith(search string, pos int) bool {
	needle := []rune(search)
	return string(mbSubstr(p.runes(), pos-len(needle), 0, false)) == search
}

// Runes iterates over the code points of the current value, yielding the
// code point index and the code point as a string.
func (p *PowerString) Runes() iter.Seq2[int, string] {
	rs := p.runes()
	return func(yield func(int, string) bool) {
		for i, r := range rs {
			if !yield(i, string(r)) {
				return
			}
		}
	}
}

// ============================================================================
// Index access
// ============================================================================

// At is an alias of CharAt.
func (p *PowerString) At(index int) string {
	return p.CharAt(index)
}

// HasIndex reports whether 0 <= index < Length().
func (p *PowerString) HasIndex(index int) bool {
	return index >= 0 && index < p.Length()
}

// SetAt replaces the code point at index with value, which may have any
// length. An index outside [0, Length()) leaves the value unchanged.
func (p *PowerString) SetAt(index int, value string) *PowerString {
	if !p.HasIndex(index) {
		return p
	}
	rs := p.runes()
	*p.ptr() = string(mbSubstr(rs, 0, index, true)) + value + string(mbSubstr(rs, index+1, 0, false))
	return p
}

// DeleteAt removes the code point at index. An index outside
// [0, Length()) leaves the value unchanged.
func (p *PowerString) DeleteAt(index int) *PowerString {
	if !p.HasIndex(index) {
		return p
	}
	rs := p.runes()
	*p.ptr() = string(mbSubstr(rs, 0, index, true)) + string(mbSubstr(rs, index+1, 0, false))
	return p
}

// ============================================================================
// Mutators
// ============================================================================

// Append adds s to the end of the value.
func (p *PowerString) Append(s string) *PowerString {
	*p.ptr() += s
	return p
}

// Prepend adds s to the start of the value.
func (p *PowerString) Prepend(s string) *PowerString {
	*p.ptr() = s + *p.ptr()
	return p
}

// Concat appends the string forms of parts to the value.
func (p *PowerString) Concat(parts ...any) {
	var sb strings.Builder
	sb.WriteString(*p.ptr())
	for _, part := range parts {
		switch v := part.(type) {
		case string:
			sb.WriteString(v)
		case fmt.Stringer:
			sb.WriteString(v.String())
		default:
			fmt.Fprint(&sb, v)
		}
	}
	*p.ptr() = sb.String()
}

// Repeat replaces the value with count copies of itself. A negative
// count is treated as zero.
func (p *PowerString) Repeat(count int) *PowerString {
	*p.ptr() = strings.Repeat(*p.ptr(), max(count, 0))
	return p
}

// Trim removes leading and trailing Unicode whitespace.
func (p *PowerString) Trim() *PowerString {
	*p.ptr() = strings.TrimFunc(*p.ptr(), unicode.IsSpace)
	return p
}

// TrimLeft removes leading Unicode whitespace.
func (p *PowerString) TrimLeft() *PowerString {
	*p.ptr() = strings.TrimLeftFunc(*p.ptr(), unicode.IsSpace)
	return p
}

// TrimRight removes trailing Unicode whitespace.
func (p *PowerString) TrimRight() *PowerString {
	*p.ptr() = strings.TrimRightFunc(*p.ptr(), unicode.IsSpace)
	return p
}

// ToLowerCase applies Unicode lower-case mapping.
func (p *PowerString) ToLowerCase() *PowerString {
	*p.ptr() = cases.Lower(language.Und).String(*p.ptr())
	return p
}

// ToUpperCase applies Unicode upper-case mapping.
func (p *PowerString) ToUpperCase() *PowerString {
	*p.ptr() = cases.Upper(language.Und).String(*p.ptr())
	return p
}

// Normalize converts the value to the Unicode normalization form named by
// form: "NFC", "NFD", "NFKC" or "NFKD". An empty form means "NFC".
func (p *PowerString) Normalize(form string) (*PowerString, error) {
	var f norm.Form
	switch strings.ToUpper(form) {
	case "", "NFC":
		f = norm.NFC
	case "NFD":
		f = norm.NFD
	case "NFKC":
		f = norm.NFKC
	case "NFKD":
		f = norm.NFKD
	default:
		return p, errors.Wrapf(ErrInvalidArgument, "unknown normalization form %q", form)
	}
	*p.ptr() = f.String(*p.ptr())
	return p, nil
}

// Slice keeps the code points from begin up to end. Without end, the
// rest of the value is kept. A negative end drops that many code points
// from the end; a negative begin counts from the end.
func (p *PowerString) Slice(begin int, end ...int) *PowerString {
	rs := p.runes()
	e := len(rs)
	if len(end) > 0 {
		e = end[0]
	}
	length := e - begin
	if e < 0 {
		length = e
	}
	*p.ptr() = string(mbSubstr(rs, begin, length, true))
	return p
}

// Substr keeps length code points starting at start, or the rest of the
// value when length is omitted. Negative start or length count from the
// end.
func (p *PowerString) Substr(start int, length ...int) *PowerString {
	rs := p.runes()
	if len(length) > 0 {
		*p.ptr() = string(mbSubstr(rs, start, length[0], true))
	} else {
		*p.ptr() = string(mbSubstr(rs, start, 0, false))
	}
	return p
}

// Substring keeps the code points between indexA and indexB (default:
// the length). The indices are swapped when indexA > indexB and clamped
// into [0, Length()]; negative values never count from the end.
func (p *PowerString) Substring(indexA int, indexB ...int) *PowerString {
	rs := p.runes()
	l := len(rs)
	b := l
	if len(indexB) > 0 {
		b = indexB[0]
	}
	a := indexA
	if a > b {
		a, b = b, a
	}
	a = clamp(a, 0, l)
	b = clamp(b, 0, l)
	*p.ptr() = string(rs[a:b])
	return p
}

// ============================================================================
// Splitting
// ============================================================================

// Split divides the value around each occurrence of sep. A positive limit
// caps the number of pieces, the last one holding the remainder; a
// negative limit drops that many pieces from the end; zero yields the
// whole value as one piece. An empty sep splits into code points.
func (p *PowerString) Split(sep string, limit ...int) *PowerArray {
	s := *p.ptr()
	if len(limit) == 0 {
		return PA(strings.Split(s, sep))
	}
	n := limit[0]
	switch {
	case n > 0:
		return PA(strings.SplitN(s, sep, n))
	case n == 0:
		return PA([]string{s})
	}
	parts := strings.Split(s, sep)
	if -n >= len(parts) {
		return PA(nil)
	}
	return PA(parts[:len(parts)+n])
}

// SplitByPattern divides the value around each match of pattern. A
// positive limit caps the number of pieces; zero or negative means no
// limit.
func (p *PowerString) SplitByPattern(pattern string, limit int) (*PowerArray, error) {
	pat, err := compilePattern(pattern)
	if err != nil {
		return nil, err
	}
	text := p.runes()
	if limit == 1 {
		return PA([]string{string(text)}), nil
	}
	ms, err := pat.matches(text, 0, true)
	if err != nil {
		return nil, err
	}
	var pieces []string
	prev := 0
	for _, m := range ms {
		if limit > 0 && len(pieces) == limit-1 {
			break
		}
		pieces = append(pieces, string(text[prev:m.Index]))
		prev = m.Index + m.Length
	}
	pieces = append(pieces, string(text[prev:]))
	return PA(pieces), nil
}

// ============================================================================
// Pattern operations
// ============================================================================

// MatchFlags adjust the result of Match.
type MatchFlags int

const (
	// OffsetCapture records the code point offset of each group.
	OffsetCapture MatchFlags = 1 << iota
)

// Match is one pattern match. Groups[0] is the whole match.
type Match struct {
	Groups []string
	// Offsets holds the code point offset of each group, -1 for groups
	// that did not participate. It is nil unless OffsetCapture was given.
	Offsets []int
	names   []string
}

// Group returns the text captured by the named group.
func (m Match) Group(name string) (string, bool) {
	for i, n := range m.names {
		if n == name {
			return m.Groups[i], true
		}
	}
	return "", false
}

// Match finds pattern at or after code point offset. It returns the
// first match, or all matches when the pattern carries the `a` flag, and
// nil when nothing matches.
func (p *PowerString) Match(pattern string, flags MatchFlags, offset int) ([]Match, error) {
	pat, err := compilePattern(pattern)
	if err != nil {
		return nil, err
	}
	text := p.runes()
	offset, ok := normalizeOffset(offset, len(text))
	if !ok {
		return nil, nil
	}
	ms, err := pat.matches(text, offset, pat.global)
	if err != nil {
		return nil, err
	}
	if len(ms) == 0 {
		return nil, nil
	}
	out := make([]Match, len(ms))
	for i, m := range ms {
		out[i] = newMatch(m, flags)
	}
	return out, nil
}

func newMatch(m *regexp2.Match, flags MatchFlags) Match {
	gs := m.Groups()
	out := Match{
		Groups: make([]string, len(gs)),
		names:  make([]string, len(gs)),
	}
	if flags&OffsetCapture != 0 {
		out.Offsets = make([]int, len(gs))
	}
	for i := range gs {
		g := &gs[i]
		out.names[i] = g.Name
		matched := len(g.Captures) > 0
		if matched {
			out.Groups[i] = g.String()
		}
		if out.Offsets != nil {
			out.Offsets[i] = -1
			if matched {
				out.Offsets[i] = g.Index
			}
		}
	}
	return out
}

// Search returns the code point index of the first match of pattern at or
// after from together with the matched text, or -1 and "".
func (p *PowerString) Search(pattern string, from int) (int, string, error) {
	pat, err := compilePattern(pattern)
	if err != nil {
		return -1, "", err
	}
	text := p.runes()
	from, ok := normalizeOffset(from, len(text))
	if !ok {
		return -1, "", nil
	}
	ms, err := pat.matches(text, from, false)
	if err != nil || len(ms) == 0 {
		return -1, "", err
	}
	return ms[0].Index, ms[0].String(), nil
}

// IndexOfPattern returns the code point index of the first match of
// pattern, or -1.
func (p *PowerString) IndexOfPattern(pattern string) (int, error) {
	i, _, err := p.Search(pattern, 0)
	return i, err
}

// Replace substitutes matches of pattern with replacement, which may
// reference groups as $1, ${1}, ${name} or \1. A reference to a missing
// group expands to nothing; any other `$` is literal. Only the first match is
// replaced unless the pattern carries the `a` flag.
func (p *PowerString) Replace(pattern, replacement string) (*PowerString, error) {
	pat, err := compilePattern(pattern)
	if err != nil {
		return p, err
	}
	out, err := pat.re.Replace(*p.ptr(), convertReplacement(replacement, pat.re), -1, pat.limit())
	if err != nil {
		return p, errors.Wrapf(ErrPatternSyntax, "replacement %q: %v", replacement, err)
	}
	*p.ptr() = out
	return p, nil
}

// ReplaceFunc substitutes matches of pattern with the result of fn,
// which receives the whole match followed by the groups. Only the first
// match is replaced unless the pattern carries the `a` flag.
func (p *PowerString) ReplaceFunc(pattern string, fn func(groups []string) string) (*PowerString, error) {
	pat, err := compilePattern(pattern)
	if err != nil {
		return p, err
	}
	out, err := pat.re.ReplaceFunc(*p.ptr(), func(m regexp2.Match) string {
		return fn(newMatch(&m, 0).Groups)
	}, -1, pat.limit())
	if err != nil {
		return p, errors.Wrap(err, "replace")
	}
	*p.ptr() = out
	return p, nil
}

// ============================================================================
// Code point helpers
// ============================================================================

// mbSubstr returns the code points selected by start and length. A
// negative start counts from the end; without a length the rest is
// taken; a negative length stops that many code points before the end.
func mbSubstr(rs []rune, start, length int, hasLength bool) []rune {
	n := len(rs)
	if start < 0 {
		start = max(n+start, 0)
	} else if start > n {
		return nil
	}
	end := n
	if hasLength {
		if length < 0 {
			end = n + length
			if end < start {
				return nil
			}
		} else if length < n-start {
			end = start + length
		}
	}
	return rs[start:end]
}

// normalizeOffset maps a possibly negative offset into [0, n]. It
// reports false when a non-negative offset lies past the end.
func normalizeOffset(offset, n int) (int, bool) {
	if offset < 0 {
		return max(n+offset, 0), true
	}
	return offset, offset <= n
}

func clamp[T constraints.Integer](v, lo, hi T) T {
	return min(max(v, lo), hi)
}

func indexRunes(hay, needle []rune, from int) int {
	for i := from; i+len(needle) <= len(hay); i++ {
		if runesHavePrefix(hay[i:], needle) {
			return i
		}
	}
	return -1
}

func runesHavePrefix(s, prefix []rune) bool {
	if len(prefix) > len(s) {
		return false
	}
	for i, r := range prefix {
		if s[i] != r {
			return false
		}
	}
	return true
}

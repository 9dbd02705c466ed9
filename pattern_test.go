package powerkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Pattern parsing Tests
// ============================================================================

func TestParsePattern_Delimiters(t *testing.T) {
	tests := []struct {
		src   string
		input string
	}{
		{"/ab/", "xaby"},
		{"#ab#", "xaby"},
		{"~a/b~", "a/b"},
		{"{ab}", "ab"},
		{"(ab)", "ab"},
		{"[ab]", "ab"},
		{"<ab>", "ab"},
		{`/a\/b/`, "a/b"},
		{"§ab§", "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			p, err := parsePattern(tt.src)
			require.NoError(t, err)
			ok, err := p.re.MatchString(tt.input)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.False(t, p.global)
		})
	}
}

func TestParsePattern_Flags(t *testing.T) {
	p, err := parsePattern("/ab/ia")
	require.NoError(t, err)
	assert.True(t, p.global)
	ok, err := p.re.MatchString("AB")
	require.NoError(t, err)
	assert.True(t, ok)

	p, err = parsePattern("/a b # comment\n/x")
	require.NoError(t, err)
	ok, err = p.re.MatchString("ab")
	require.NoError(t, err)
	assert.True(t, ok)

	p, err = parsePattern("/(a)(?<n>b)/n")
	require.NoError(t, err)
	m, err := p.re.FindStringMatch("ab")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, 2, m.GroupCount())
}

func TestParsePattern_NoOpModifiers(t *testing.T) {
	for _, src := range []string{"/a+/S", "/(?<n>a)|(?<n>b)/J"} {
		p, err := parsePattern(src)
		require.NoError(t, err, src)
		ok, err := p.re.MatchString("a")
		require.NoError(t, err)
		assert.True(t, ok, src)
	}
}

func TestParsePattern_Errors(t *testing.T) {
	tests := map[string]string{
		"empty":           "",
		"letter delim":    "abca",
		"digit delim":     "1ab1",
		"backslash delim": `\ab\`,
		"space delim":     " ab ",
		"unterminated":    "/ab",
		"escaped end":     `/ab\/`,
		"unknown flag":    "/ab/z",
		"ungreedy flag":   "/ab/U",
		"dollar end flag": "/ab/D",
		"bad expression":  "/a(b/",
		"unbalanced":      "{ab{",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parsePattern(src)
			assert.ErrorIs(t, err, ErrPatternSyntax)
		})
	}
}

func TestCompilePattern_Cached(t *testing.T) {
	require.NotNil(t, patterns)

	p1, err := compilePattern("/cache-me/i")
	require.NoError(t, err)
	patterns.Wait()

	p2, err := compilePattern("/cache-me/i")
	require.NoError(t, err)
	assert.Equal(t, p1.re.String(), p2.re.String())

	_, err = compilePattern("/cache-me")
	assert.ErrorIs(t, err, ErrPatternSyntax)
}

func TestPattern_Limit(t *testing.T) {
	assert.Equal(t, 1, (&pattern{}).limit())
	assert.Equal(t, -1, (&pattern{global: true}).limit())
}

func TestPattern_Matches(t *testing.T) {
	p, err := parsePattern(`/\d/`)
	require.NoError(t, err)

	text := []rune("é1ü2")
	ms, err := p.matches(text, 0, true)
	require.NoError(t, err)
	require.Len(t, ms, 2)
	assert.Equal(t, 1, ms[0].Index)
	assert.Equal(t, 3, ms[1].Index)

	ms, err = p.matches(text, 2, false)
	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.Equal(t, "2", ms[0].String())

	ms, err = p.matches([]rune("none"), 0, true)
	require.NoError(t, err)
	assert.Empty(t, ms)
}

// ============================================================================
// Replacement conversion Tests
// ============================================================================

func TestConvertReplacement(t *testing.T) {
	p, err := parsePattern(`/(a)(?<word>b)/`)
	require.NoError(t, err)

	tests := map[string]string{
		"plain":     "plain",
		`\1`:        "${1}",
		`$1`:        "${1}",
		`${1}`:      "${1}",
		`${word}`:   "${word}",
		`$0`:        "${0}",
		`\\1`:       `\1`,
		`$1 \2`:     "${1} ${2}",
		`$9`:        "",
		`\12`:       "",
		`${nope}`:   "",
		`$&`:        "$$&",
		`$_`:        "$$_",
		"$`":        "$$`",
		`$'`:        "$$'",
		`$$`:        "$$$$",
		`${`:        "$${",
		`$`:         "$$",
		`trailing\`: `trailing\`,
		`\n`:        `\n`,
	}
	for in, want := range tests {
		assert.Equal(t, want, convertReplacement(in, p.re), in)
	}
}

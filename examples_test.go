//nolint:errcheck
package powerkit_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	pk "github.com/Pure-Company/powerkit"
)

// ============================================================================
// Example 1: Layered configuration with Merge
// ============================================================================

// ServerDefaults is a typed defaults record.
type ServerDefaults struct {
	Host    string
	Port    int
	Verbose bool
}

// Example_layeredConfig shows how Merge fills gaps without overwriting
func Example_layeredConfig() {
	cfg := pk.NewMap()

	// Highest priority first: flags, then environment, then defaults.
	cfg.Merge(pk.Mapping{"port": 9090})
	cfg.Merge(pk.Mapping{"host": "env.example.com", "port": 8080})
	cfg.Merge(pk.Fields(ServerDefaults{Host: "localhost", Port: 80}))

	for k, v := range cfg.All() {
		fmt.Printf("%s=%v\n", k, v)
	}
	// Output:
	// Host=localhost
	// Port=80
	// Verbose=false
	// host=env.example.com
	// port=9090
}

// ============================================================================
// Example 2: Accepting values of unknown shape
// ============================================================================

// Example_sourceOf demonstrates classifying decoded documents
func Example_sourceOf() {
	var doc any
	json.Unmarshal([]byte(`{"name": "powerkit", "tags": ["a", "b"]}`), &doc)

	src, err := pk.SourceOf(doc)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	m, _ := pk.NewMapFrom(src)
	fmt.Println(m.Get("name"), m.Count())

	_, err = pk.SourceOf(42)
	fmt.Println(errors.Is(err, pk.ErrInvalidArgument))
	// Output:
	// powerkit 2
	// true
}

// ============================================================================
// Example 3: Binary round trip
// ============================================================================

// Example_serialize shows the deterministic binary encoding
func Example_serialize() {
	m, _ := pk.NewMapFrom(pk.Mapping{"b": 2, "a": []any{"x", true}})

	data, err := m.Serialize()
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	restored := pk.NewMap()
	if err := restored.Deserialize(data); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(restored)

	err = restored.Deserialize(data[:len(data)-1])
	fmt.Println(errors.Is(err, pk.ErrDecode), restored.Count())
	// Output:
	// Map{a: [x true], b: 2}
	// true 2
}

// ============================================================================
// Example 4: Chained string mutation
// ============================================================================

// Example_chaining demonstrates Unicode-aware chained mutators
func Example_chaining() {
	s := pk.Of("  héllo wörld  ").Trim().ToUpperCase()
	fmt.Println(s, s.Length())

	s.Slice(0, -1).Append("D!")
	fmt.Println(s)
	// Output:
	// HÉLLO WÖRLD 11
	// HÉLLO WÖRLD!
}

// ============================================================================
// Example 5: Writing through to a variable
// ============================================================================

// Example_on shows On mutating the caller's own variable
func Example_on() {
	title := "  draft  "
	pk.On(&title).Trim().Prepend("[").Append("]")
	fmt.Println(title)
	// Output: [draft]
}

// ============================================================================
// Example 6: Patterns
// ============================================================================

// Example_replace shows first-match versus global replacement
func Example_replace() {
	once, _ := pk.Of("abcabc").Replace("/a/", "Z")
	all, _ := pk.Of("abcabc").Replace("/a/a", "Z")
	swapped, _ := pk.Of("Ada Lovelace").Replace(`/(\w+) (\w+)/`, "$2, $1")

	fmt.Println(once)
	fmt.Println(all)
	fmt.Println(swapped)
	// Output:
	// Zbcabc
	// ZbcZbc
	// Lovelace, Ada
}

// Example_match demonstrates offsets counted in code points
func Example_match() {
	ms, _ := pk.Of("naïve 42, café 7").Match(`/(\p{L}+) (\d+)/a`, pk.OffsetCapture, 0)
	for _, m := range ms {
		fmt.Println(m.Groups[1], m.Groups[2], m.Offsets[0])
	}
	// Output:
	// naïve 42 0
	// café 7 10
}

// Example_split shows literal and pattern splitting
func Example_split() {
	fmt.Println(pk.Of("a,b,c").Split(",").Values())
	fmt.Println(pk.Of("a,b,c").Split(",", 2).Values())

	parts, _ := pk.Of("one  two\tthree").SplitByPattern(`/\s+/`, -1)
	fmt.Println(strings.Join(parts.Values(), "|"))
	// Output:
	// [a b c]
	// [a b,c]
	// one|two|three
}

// Example_badPattern shows pattern errors leaving the value intact
func Example_badPattern() {
	s := pk.Of("keep")
	_, err := s.Replace("/unterminated", "x")
	fmt.Println(errors.Is(err, pk.ErrPatternSyntax), s)
	// Output: true keep
}

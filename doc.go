/*
Package powerkit provides two small data-wrapper types: an associative
Map and a Unicode-aware, chainable PowerString.

# Overview

Map wraps a map[string]any with indexed access, snapshot iteration,
left-biased merging and a deterministic binary encoding. PowerString
wraps a single string with an API modelled on the ECMAScript String
object: every index counts code points, out-of-range reads return "" or
0, and mutators return the receiver so calls chain.

# Quick Example

	m := powerkit.NewMap()
	m.SetEntry("host", "localhost")
	m.Merge(powerkit.Mapping{"host": "example.com", "port": 8080})
	// host stays "localhost", port is added

	s := powerkit.Of("  héllo wörld  ").Trim().ToUpperCase()
	fmt.Println(s.Length()) // 11

# Map

Merge fills gaps: keys already present keep their values. Set replaces
the content. Both accept a Source, a closed set of shapes:

	powerkit.Mapping{...}          // plain map
	otherMap                       // *Map
	powerkit.Iter(seq)             // iter.Seq2[string, any]
	powerkit.Fields(structValue)   // exported struct fields

SourceOf classifies values of unknown type, for example the result of
decoding YAML or JSON, and fails with ErrInvalidArgument for anything
else.

Assigning nil through SetEntry removes the key. AsMapping exposes the
live backing map.

# PowerString Constructors

	powerkit.Of(s)     // independent copy
	powerkit.On(&s)    // shared instance writing through to s
	powerkit.Cast(v)   // new instance from any string-like value

On always returns the same instance, rebound to the newest argument. It
avoids an allocation per call but must not be retained or shared between
goroutines.

# Patterns

Pattern operations (Match, Search, IndexOfPattern, Replace, ReplaceFunc,
SplitByPattern) take delimiter-bounded patterns:

	/expression/flags
	#expression#i
	{expression}m

Unicode mode is always enabled. The pseudo-flag `a` applies the
operation to every match instead of the first one:

	powerkit.Of("abcabc").Replace("/a/a", "Z") // ZbcZbc
	powerkit.Of("abcabc").Replace("/a/", "Z")  // Zbcabc

Malformed patterns fail with ErrPatternSyntax.

# Command Line

cmd/powerkit exposes both types:

	powerkit str replace "abcabc" "/a/a" Z
	powerkit -o json map merge local.yaml defaults.yaml
	powerkit map encode doc.yaml --out doc.pkm

# Package Import

	import pk "github.com/Pure-Company/powerkit"
*/
package powerkit

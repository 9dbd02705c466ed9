package powerkit

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// ============================================================================
// PowerArray
// ============================================================================

// PowerArray is a minimal sequence wrapper returned by PowerString's
// split operations.
type PowerArray struct {
	own []string
	ref *[]string
}

var sharedArray = &PowerArray{}

// ArrayOf creates a PowerArray holding its own copy of items.
func ArrayOf(items []string) *PowerArray {
	a := &PowerArray{own: slices.Clone(items)}
	a.ref = &a.own
	return a
}

// ArrayOn returns the process-wide shared PowerArray bound to *items.
// The same caveats as On apply.
func ArrayOn(items *[]string) *PowerArray {
	if items == nil {
		sharedArray.own = nil
		items = &sharedArray.own
	}
	sharedArray.ref = items
	return sharedArray
}

// ArrayCast converts a slice-like value into a new PowerArray.
func ArrayCast(v any) *PowerArray {
	switch val := v.(type) {
	case []string:
		return ArrayOf(val)
	case *PowerArray:
		return ArrayOf(val.Values())
	case []any:
		items := make([]string, len(val))
		for i, item := range val {
			items[i] = fmt.Sprint(item)
		}
		return ArrayOf(items)
	case nil:
		return ArrayOf(nil)
	}
	return ArrayOf([]string{fmt.Sprint(v)})
}

func (a *PowerArray) ptr() *[]string {
	if a.ref == nil {
		a.ref = &a.own
	}
	return a.ref
}

// Len returns the number of items.
func (a *PowerArray) Len() int {
	return len(*a.ptr())
}

// At returns the item at index, or "" when out of range.
func (a *PowerArray) At(index int) string {
	items := *a.ptr()
	if index < 0 || index >= len(items) {
		return ""
	}
	return items[index]
}

// Values returns a copy of the items.
func (a *PowerArray) Values() []string {
	return slices.Clone(*a.ptr())
}

// All iterates over the items.
func (a *PowerArray) All() iter.Seq2[int, string] {
	return slices.All(a.Values())
}

// Join concatenates the items with sep and wraps the result.
func (a *PowerArray) Join(sep string) *PowerString {
	return Of(strings.Join(*a.ptr(), sep))
}

// String returns a debug representation of the items.
func (a *PowerArray) String() string {
	return fmt.Sprintf("%q", *a.ptr())
}

package powerkit

import (
	"encoding/json"
	"fmt"
	"iter"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// ============================================================================
// Map
// ============================================================================

// Map is a mutable associative map from string keys to arbitrary values.
//
// Assigning nil through SetEntry removes the key instead of storing it.
// Iteration visits keys in ascending byte order.
//
// Example:
//
//	m := NewMap()
//	m.SetEntry("name", "Alice")
//	m.Merge(Mapping{"name": "Bob", "age": 30}) // name stays "Alice"
type Map struct {
	data map[string]any
}

// NewMap creates an empty map.
func NewMap() *Map {
	return &Map{data: make(map[string]any)}
}

// NewMapFrom creates a map holding the entries of src.
func NewMapFrom(src Source) (*Map, error) {
	m := NewMap()
	if _, err := m.Set(src); err != nil {
		return nil, err
	}
	return m, nil
}

// Get returns the value stored under key, or nil.
func (m *Map) Get(key string) any {
	return m.data[key]
}

// Lookup returns the value stored under key and whether it is present.
func (m *Map) Lookup(key string) (any, bool) {
	v, ok := m.data[key]
	return v, ok && v != nil
}

// SetEntry stores value under key. A nil value removes the key.
func (m *Map) SetEntry(key string, value any) {
	if value == nil {
		delete(m.data, key)
		return
	}
	m.data[key] = value
}

// Has reports whether key holds a non-nil value.
func (m *Map) Has(key string) bool {
	return m.data[key] != nil
}

// Remove deletes key. It is a no-op when key is absent.
func (m *Map) Remove(key string) {
	delete(m.data, key)
}

// AsMapping returns the live backing map. Writes through the returned
// value bypass the nil-removes rule of SetEntry.
func (m *Map) AsMapping() map[string]any {
	return m.data
}

// Clear removes all entries.
func (m *Map) Clear() *Map {
	m.data = make(map[string]any)
	return m
}

// Count returns the number of entries.
func (m *Map) Count() int {
	return len(m.data)
}

// Keys returns all keys in iteration order.
func (m *Map) Keys() []string {
	return slices.Sorted(maps.Keys(m.data))
}

// Values returns all values in iteration order.
func (m *Map) Values() []any {
	keys := m.Keys()
	values := make([]any, len(keys))
	for i, k := range keys {
		values[i] = m.data[k]
	}
	return values
}

// All iterates over the entries present when All was called. The
// returned sequence can be ranged over more than once.
func (m *Map) All() iter.Seq2[string, any] {
	keys := m.Keys()
	values := make([]any, len(keys))
	for i, k := range keys {
		values[i] = m.data[k]
	}
	return func(yield func(string, any) bool) {
		for i, k := range keys {
			if !yield(k, values[i]) {
				return
			}
		}
	}
}

// Merge adds the entries of src whose keys are not already present.
// Values already in the map win over values from src.
func (m *Map) Merge(src Source) (*Map, error) {
	if src == nil {
		return m, errors.Wrap(ErrInvalidArgument, "nil source")
	}
	err := src.each(func(k string, v any) {
		if v == nil {
			return
		}
		if _, exists := m.data[k]; !exists {
			m.data[k] = v
		}
	})
	if err != nil {
		return m, err
	}
	return m, nil
}

// Set replaces the map content with src. A Mapping is adopted as a copy;
// any other source is merged into the emptied map.
func (m *Map) Set(src Source) (*Map, error) {
	if raw, ok := src.(Mapping); ok {
		m.data = maps.Clone(map[string]any(raw))
		if m.data == nil {
			m.data = make(map[string]any)
		}
		return m, nil
	}
	if src == nil {
		return m, errors.Wrap(ErrInvalidArgument, "nil source")
	}
	// A map set from itself must not be emptied before it is read.
	if other, ok := src.(*Map); ok && other == m {
		return m, nil
	}
	m.Clear()
	return m.Merge(src)
}

// String returns a debug representation of the map.
func (m *Map) String() string {
	var sb strings.Builder
	sb.WriteString("Map{")
	for i, k := range m.Keys() {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s: %v", k, m.data[k])
	}
	sb.WriteString("}")
	return sb.String()
}

// MarshalJSON implements json.Marshaler.
func (m *Map) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.data)
}

// UnmarshalJSON implements json.Unmarshaler. The decoded object replaces
// the map content.
func (m *Map) UnmarshalJSON(data []byte) error {
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return errors.Wrap(ErrDecode, err.Error())
	}
	_, err := m.Set(Mapping(decoded))
	return err
}

// ============================================================================
// Merge sources
// ============================================================================

// Source is an input accepted by Map.Merge and Map.Set. The set of
// implementations is closed: Mapping, *Map, Iter and Fields.
type Source interface {
	each(fn func(key string, value any)) error
}

// Mapping is a plain map used as a merge source.
type Mapping map[string]any

func (s Mapping) each(fn func(string, any)) error {
	for k, v := range s {
		fn(k, v)
	}
	return nil
}

func (m *Map) each(fn func(string, any)) error {
	if m == nil {
		return errors.Wrap(ErrInvalidArgument, "nil map")
	}
	for k, v := range m.All() {
		fn(k, v)
	}
	return nil
}

type iterSource iter.Seq2[string, any]

// Iter wraps a key/value sequence as a merge source. When a key repeats,
// its last value counts.
func Iter(seq iter.Seq2[string, any]) Source {
	return iterSource(seq)
}

func (s iterSource) each(fn func(string, any)) error {
	if s == nil {
		return errors.Wrap(ErrInvalidArgument, "nil sequence")
	}
	// Materialise first so that later duplicates override earlier ones.
	collected := make(map[string]any)
	for k, v := range s {
		collected[k] = v
	}
	for k, v := range collected {
		fn(k, v)
	}
	return nil
}

type fieldsSource struct {
	obj any
}

// Fields uses the exported fields of a struct, or pointer to struct, as
// a merge source keyed by field name.
func Fields(obj any) Source {
	return fieldsSource{obj: obj}
}

func (s fieldsSource) each(fn func(string, any)) error {
	rv := reflect.ValueOf(s.obj)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return errors.Wrap(ErrInvalidArgument, "nil object")
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errors.Wrapf(ErrInvalidArgument, "unsupported type %T", s.obj)
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		fv := rv.Field(i)
		if isNilValue(fv) {
			continue
		}
		fn(f.Name, fv.Interface())
	}
	return nil
}

func isNilValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// SourceOf classifies a dynamically typed value as a Source.
//
// Accepted shapes are map[string]any, map[string]string, *Map, Source,
// any value with an All() iter.Seq2[string, any] method, and structs or
// pointers to structs. Anything else yields ErrInvalidArgument.
func SourceOf(v any) (Source, error) {
	switch src := v.(type) {
	case nil:
		return nil, errors.Wrap(ErrInvalidArgument, "unsupported type nil")
	case *Map:
		return src, nil
	case Source:
		return src, nil
	case map[string]any:
		return Mapping(src), nil
	case map[string]string:
		raw := make(Mapping, len(src))
		for k, s := range src {
			raw[k] = s
		}
		return raw, nil
	case interface{ All() iter.Seq2[string, any] }:
		return Iter(src.All()), nil
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Struct {
		return Fields(v), nil
	}
	return nil, errors.Wrapf(ErrInvalidArgument, "unsupported type %T", v)
}

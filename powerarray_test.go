package powerkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrayOf_Copies(t *testing.T) {
	items := []string{"a", "b"}
	a := ArrayOf(items)
	items[0] = "z"

	assert.Equal(t, []string{"a", "b"}, a.Values())
	assert.Equal(t, 2, a.Len())
}

func TestArrayOn_SharesBacking(t *testing.T) {
	items := []string{"x"}
	a := ArrayOn(&items)
	items = append(items, "y")

	assert.Equal(t, 2, a.Len())
	assert.Same(t, a, AsPA(&items))
	assert.Equal(t, 0, ArrayOn(nil).Len())
}

func TestArrayCast(t *testing.T) {
	assert.Equal(t, []string{"a"}, ArrayCast([]string{"a"}).Values())
	assert.Equal(t, []string{"1", "true"}, ArrayCast([]any{1, true}).Values())
	assert.Equal(t, []string{"b"}, ToPA(PA([]string{"b"})).Values())
	assert.Equal(t, []string{"7"}, ArrayCast(7).Values())
	assert.Equal(t, 0, ArrayCast(nil).Len())
}

func TestPowerArray_At(t *testing.T) {
	a := PA([]string{"a", "b"})
	assert.Equal(t, "b", a.At(1))
	assert.Equal(t, "", a.At(2))
	assert.Equal(t, "", a.At(-1))
}

func TestPowerArray_All(t *testing.T) {
	var got []string
	for i, v := range PA([]string{"a", "b"}).All() {
		got = append(got, v)
		assert.Equal(t, len(got)-1, i)
	}
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestPowerArray_Join(t *testing.T) {
	s := Of("2024-06-01").Split("-").Join("/")
	require.NotNil(t, s)
	assert.Equal(t, "2024/06/01", s.String())
}

func TestPowerArray_String(t *testing.T) {
	assert.Equal(t, `["a" "b"]`, PA([]string{"a", "b"}).String())
}

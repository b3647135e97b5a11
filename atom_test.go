package bytelog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAtomTableInternIsIdempotent(t *testing.T) {
	tab := NewAtomTable()
	id1 := tab.Intern("alice")
	id2 := tab.Intern("alice")
	require.Equal(t, id1, id2)
}

func TestAtomTableInternIsDense(t *testing.T) {
	tab := NewAtomTable()
	id1 := tab.Intern("hello")
	id2 := tab.Intern("world")
	id3 := tab.Intern("foo")
	require.Equal(t, int32(0), id1)
	require.Equal(t, int32(1), id2)
	require.Equal(t, int32(2), id3)
	require.Equal(t, 3, tab.Count())
}

func TestAtomTableDistinctStringsGetDistinctIDs(t *testing.T) {
	tab := NewAtomTable()
	a := tab.Intern("Alice")
	b := tab.Intern("alice")
	c := tab.Intern("ALICE")
	require.NotEqual(t, a, b)
	require.NotEqual(t, b, c)
	require.NotEqual(t, a, c)
}

func TestAtomTableLookup(t *testing.T) {
	tab := NewAtomTable()
	tab.Intern("hello")
	tab.Intern("world")

	id, ok := tab.Lookup("hello")
	require.True(t, ok)
	require.Equal(t, int32(0), id)

	_, ok = tab.Lookup("notfound")
	require.False(t, ok)
}

func TestAtomTableName(t *testing.T) {
	tab := NewAtomTable()
	id := tab.Intern("hello")

	name, ok := tab.Name(id)
	require.True(t, ok)
	require.Equal(t, "hello", name)

	_, ok = tab.Name(999)
	require.False(t, ok)
}

package factdb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddIsIdempotent(t *testing.T) {
	db := New()
	require.True(t, db.Add(1, 10, 20))
	require.False(t, db.Add(1, 10, 20))
	require.Equal(t, 1, db.Size(1))
}

func TestContains(t *testing.T) {
	db := New()
	db.Add(1, 10, 20)
	require.True(t, db.Contains(1, 10, 20))
	require.False(t, db.Contains(1, 10, 21))
	require.False(t, db.Contains(2, 10, 20))
}

func TestIterateInsertionOrder(t *testing.T) {
	db := New()
	db.Add(1, 0, 1)
	db.Add(1, 1, 2)
	db.Add(1, 2, 3)
	require.Equal(t, []Pair{{0, 1}, {1, 2}, {2, 3}}, db.Iterate(1))
}

func TestIterateUnknownRelationIsEmpty(t *testing.T) {
	db := New()
	require.Empty(t, db.Iterate(99))
}

func TestIterateByFirst(t *testing.T) {
	db := New()
	db.Add(1, 10, 100)
	db.Add(1, 10, 200)
	db.Add(1, 11, 300)
	require.Equal(t, []int64{100, 200}, db.IterateByFirst(1, 10))
}

func TestIterateBySecond(t *testing.T) {
	db := New()
	db.Add(1, 10, 100)
	db.Add(1, 20, 100)
	db.Add(1, 30, 200)
	require.Equal(t, []int64{10, 20}, db.IterateBySecond(1, 100))
}

func TestIteratorStreamsPairs(t *testing.T) {
	db := New()
	db.Add(1, 0, 1)
	db.Add(1, 1, 2)

	it := db.NewIterator(1)
	defer it.Close()

	var got []Pair
	for it.Next() {
		got = append(got, it.Value())
	}
	require.Equal(t, []Pair{{0, 1}, {1, 2}}, got)
}

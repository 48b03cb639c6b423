package infra

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrderedKeyComparator(t *testing.T) {
	asc := AscOrderedKeyComparator[int]()
	require.Equal(t, int64(0), asc(3, 3))
	require.Equal(t, int64(-1), asc(1, 3))
	require.Equal(t, int64(1), asc(3, 1))

	desc := DescOrderedKeyComparator[int]()
	require.Equal(t, int64(0), desc(3, 3))
	require.Equal(t, int64(1), desc(1, 3))
	require.Equal(t, int64(-1), desc(3, 1))

	strAsc := AscOrderedKeyComparator[string]()
	require.Equal(t, int64(-1), strAsc("apple", "banana"))
	require.Equal(t, int64(1), strAsc("cherry", "banana"))

	f64Desc := DescOrderedKeyComparator[float64]()
	require.Equal(t, int64(-1), f64Desc(1.5, 1.25))
}

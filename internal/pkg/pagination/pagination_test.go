package pagination

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromRequest(t *testing.T) {
	p := FromRequest("2", "25")
	require.Equal(t, 2, p.Page)
	require.Equal(t, 25, p.Limit)
	require.Equal(t, 25, p.GetOffset())

	p = FromRequest("", "")
	require.Equal(t, 1, p.Page)
	require.Equal(t, DefaultLimit, p.Limit)
	require.Equal(t, 0, p.GetOffset())

	p = FromRequest("-3", "9999")
	require.Equal(t, 1, p.Page)
	require.Equal(t, MaxLimit, p.Limit)
}

func TestNew(t *testing.T) {
	p := New(2, 10, 25)
	require.Equal(t, 3, p.Pages)
	require.Equal(t, 10, p.Offset)
	require.True(t, p.HasNext)
	require.True(t, p.HasPrev)

	p = New(1, 10, 0)
	require.Equal(t, 1, p.Pages)
	require.False(t, p.HasNext)
	require.False(t, p.HasPrev)
}

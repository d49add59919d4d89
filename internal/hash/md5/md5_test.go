package md5

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShortHexStable(t *testing.T) {
	t.Parallel()

	first := ShortHex("Ayuda alquiler-https://example.org/a", 8)
	require.Len(t, first, 8)
	for range 3 {
		require.Equal(t, first, ShortHex("Ayuda alquiler-https://example.org/a", 8))
	}
	require.NotEqual(t, first, ShortHex("Ayuda alquiler-https://example.org/b", 8))
}

func TestShortHexClamping(t *testing.T) {
	t.Parallel()

	require.Len(t, ShortHex("x", 0), 32)
	require.Len(t, ShortHex("x", 100), 32)
	require.Len(t, ShortHex("", 4), 4)
}

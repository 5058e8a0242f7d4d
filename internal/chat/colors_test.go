package chat

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRandomChooserDeterministic(t *testing.T) {
	t.Parallel()

	a, b := NewRandomChooser(7), NewRandomChooser(7)
	for i := 0; i < 50; i++ {
		require.Equal(t, a.Choose(), b.Choose())
	}
}

func TestRandomChooserStaysInPalette(t *testing.T) {
	t.Parallel()

	c := NewRandomChooser(1)
	seen := make(map[string]bool)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				color := c.Choose()
				mu.Lock()
				seen[color] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	for color := range seen {
		require.Contains(t, Palette[:], color)
	}
	require.Len(t, seen, len(Palette))
}

func TestFixedColor(t *testing.T) {
	t.Parallel()

	require.Equal(t, "#EF4444", FixedColor("#EF4444").Choose())
}

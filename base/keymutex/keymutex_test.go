package keymutex

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSameKeySerializes(t *testing.T) {
	req := require.New(t)

	m := New(8)
	counter := 0

	wg := sync.WaitGroup{}
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Lock("listing-1")
			defer m.Unlock("listing-1")
			counter++
		}()
	}
	wg.Wait()

	req.Equal(100, counter)
}

func TestDifferentKeysDoNotBlockHolder(t *testing.T) {
	// enough stripes that these two keys land on different ones
	m := New(1024)

	m.Lock("listing-1")
	defer m.Unlock("listing-1")

	acquired := make(chan struct{})
	go func() {
		m.Lock("auction-2")
		defer m.Unlock("auction-2")
		close(acquired)
	}()

	<-acquired
}

func TestZeroStripesFallsBack(t *testing.T) {
	req := require.New(t)

	m := New(0)
	req.Len(m.stripes, 64)

	m.Lock("k")
	m.Unlock("k")
}

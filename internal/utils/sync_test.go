package utils

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOptionalMutexSerializes(t *testing.T) {
	m := OptionalMutex{UseMutex: true}
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				m.Lock()
				counter++
				m.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 8000, counter)
}

func TestOptionalMutexDisabled(t *testing.T) {
	m := OptionalMutex{}
	m.Lock()
	// A disabled mutex never blocks, so locking twice must not deadlock
	m.Lock()
	m.Unlock()
	m.Unlock()

	rw := OptionalRWMutex{}
	rw.Lock()
	rw.RLock()
	rw.RUnlock()
	rw.Unlock()
}

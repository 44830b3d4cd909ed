//go:build linux || freebsd || darwin

package sim

import (
	"golang.org/x/sys/unix"
)

// mapMemory maps anonymous, zeroed memory outside the Go heap so that CPU addresses handed to
// callers stay stable and are never moved or scanned by the garbage collector.
func mapMemory(size int) ([]byte, error) {
	return unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
}

func unmapMemory(data []byte) error {
	return unix.Munmap(data)
}

//go:build !(linux || freebsd || darwin)

package sim

func mapMemory(size int) ([]byte, error) {
	return make([]byte, size), nil
}

func unmapMemory(data []byte) error {
	return nil
}

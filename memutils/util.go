package memutils

import (
	cerrors "github.com/cockroachdb/errors"
)

type Number interface {
	~int | ~uint | ~uint64
}

func CheckPow2[T Number](number T, name string) error {
	if number == 0 || number&(number-1) != 0 {
		return cerrors.Wrapf(PowerOfTwoError, "%s is %d", name, number)
	}
	return nil
}

func AlignUp(value int, alignment uint) int {
	return (value + int(alignment) - 1) & int(^(alignment - 1))
}

// AlignUpAddress aligns a GPU virtual address up to a power-of-two alignment
func AlignUpAddress(address uint64, alignment uint64) uint64 {
	return (address + alignment - 1) &^ (alignment - 1)
}

// DivideRoundingUp returns ceil(value / divisor) for positive integers
func DivideRoundingUp(value, divisor int) int {
	return (value + divisor - 1) / divisor
}

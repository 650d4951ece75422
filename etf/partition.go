package etf

import (
	"errors"
	"fmt"
)

// Partition fixes the number of equal-area sub-intervals of a sampler
// table to a power of two N = 2^bits with bits in [4, 12].
type Partition struct {
	bits uint
}

// Predefined partition sizes.
var (
	P16   = Partition{bits: 4}
	P32   = Partition{bits: 5}
	P64   = Partition{bits: 6}
	P128  = Partition{bits: 7}
	P256  = Partition{bits: 8}
	P512  = Partition{bits: 9}
	P1024 = Partition{bits: 10}
	P2048 = Partition{bits: 11}
	P4096 = Partition{bits: 12}
)

// Bits returns log2 of the partition size.
func (p Partition) Bits() uint { return p.bits }

// Size returns the number of sub-intervals.
func (p Partition) Size() int { return 1 << p.bits }

// ErrPartitionSize is returned when a partition size is not valid for the
// requested sampler shape and float width.
var ErrPartitionSize = errors.New("partition size not valid for this sampler")

// validatePartition checks that a random word still carries a usable
// uniform fraction after the table index and optional sign bit are
// consumed. The admissible sizes per word width and shape are:
//
//	32-bit word:  N ≤ 256, or N ≤ 128 with a sign bit
//	64-bit word:  N ≤ 4096, or N ≤ 2048 with a sign bit
func validatePartition[U Word](p Partition, signBits uint) error {
	maxBits := uint(12)
	if wordBits[U]() == 32 {
		maxBits = 8
	}
	maxBits -= signBits
	if p.bits < 4 || p.bits > maxBits {
		return fmt.Errorf("%w: %d sub-intervals on a %d-bit word with %d sign bit(s)",
			ErrPartitionSize, p.Size(), wordBits[U](), signBits)
	}
	return nil
}

// InitTable is the output of the tabulator: the node positions over the
// tabulated support and the per-sub-interval PDF infima and suprema.
// Every rectangle (X[i+1]-X[i])*Ysup[i] has the same area.
type InitTable[T Real] struct {
	P    Partition
	X    []T // N+1 nodes
	Yinf []T // N infima
	Ysup []T // N suprema
}

// NewInitTable allocates a zeroed table for partition p.
func NewInitTable[T Real](p Partition) *InitTable[T] {
	n := p.Size()
	return &InitTable[T]{
		P:    p,
		X:    make([]T, n+1),
		Yinf: make([]T, n),
		Ysup: make([]T, n),
	}
}

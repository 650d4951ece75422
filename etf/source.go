package etf

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/tuneinsight/lattigo/v4/utils"
	"golang.org/x/crypto/blake2b"
)

// Source supplies the uniform random words consumed by the samplers.
//
// The samplers rely on every word being uniformly distributed over the full
// width; a source of lesser quality directly biases the output. A Source is
// not required to be safe for concurrent use: each sampling goroutine owns
// its source.
type Source interface {
	Uint32() uint32
	Uint64() uint64
}

// BlakeSource is a deterministic Source reading from an unkeyed BLAKE2b XOF
// that absorbs an arbitrary seed as its input.
type BlakeSource struct {
	xof blake2b.XOF
	buf [512]byte
	off int
}

// NewBlakeSource creates a seeded BLAKE2b source.
func NewBlakeSource(seed []byte) (*BlakeSource, error) {
	xof, err := blake2b.NewXOF(blake2b.OutputLengthUnknown, nil)
	if err != nil {
		return nil, fmt.Errorf("blake2b xof: %w", err)
	}
	if _, err := xof.Write(seed); err != nil {
		return nil, fmt.Errorf("blake2b seed: %w", err)
	}
	s := &BlakeSource{xof: xof}
	s.off = len(s.buf)
	return s, nil
}

func (s *BlakeSource) fill() {
	if _, err := io.ReadFull(s.xof, s.buf[:]); err != nil {
		// The XOF stream is far longer than any realistic draw count.
		panic(fmt.Sprintf("blake2b stream: %v", err))
	}
	s.off = 0
}

// Uint32 returns the next 32-bit word of the stream.
func (s *BlakeSource) Uint32() uint32 {
	if s.off+4 > len(s.buf) {
		s.fill()
	}
	w := binary.LittleEndian.Uint32(s.buf[s.off:])
	s.off += 4
	return w
}

// Uint64 returns the next 64-bit word of the stream.
func (s *BlakeSource) Uint64() uint64 {
	if s.off+8 > len(s.buf) {
		s.fill()
	}
	w := binary.LittleEndian.Uint64(s.buf[s.off:])
	s.off += 8
	return w
}

// SourceFromPRNG adapts a lattigo PRNG into a Source. Words are read
// little-endian from the PRNG stream.
func SourceFromPRNG(prng utils.PRNG) Source {
	return &prngSource{prng: prng}
}

type prngSource struct {
	prng utils.PRNG
	buf  [8]byte
}

func (s *prngSource) Uint32() uint32 {
	if _, err := io.ReadFull(s.prng, s.buf[:4]); err != nil {
		panic(fmt.Sprintf("prng read: %v", err))
	}
	return binary.LittleEndian.Uint32(s.buf[:4])
}

func (s *prngSource) Uint64() uint64 {
	if _, err := io.ReadFull(s.prng, s.buf[:8]); err != nil {
		panic(fmt.Sprintf("prng read: %v", err))
	}
	return binary.LittleEndian.Uint64(s.buf[:8])
}

// SplitMix64 is a small deterministic Source with 64 bits of state, useful
// for benchmarks and exploratory runs where seeding a keyed PRNG is
// overkill.
type SplitMix64 struct {
	state uint64
}

// NewSplitMix64 creates a SplitMix64 source with the given seed.
func NewSplitMix64(seed uint64) *SplitMix64 {
	return &SplitMix64{state: seed}
}

// Uint64 advances the state and returns the next word.
func (s *SplitMix64) Uint64() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Uint32 returns the high half of the next 64-bit word.
func (s *SplitMix64) Uint32() uint32 {
	return uint32(s.Uint64() >> 32)
}

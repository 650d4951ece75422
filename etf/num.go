package etf

import "math"

// Real is the set of floating-point sample types.
type Real interface {
	float32 | float64
}

// Word is the set of unsigned integer types used as random words. A
// float32 sampler consumes uint32 words, a float64 sampler uint64 words.
type Word interface {
	uint32 | uint64
}

// Width returns the bit width of T, either 32 or 64.
func Width[T Real]() uint {
	var t T
	if _, ok := any(t).(float32); ok {
		return 32
	}
	return 64
}

// wordBits returns the bit width of U. The expression folds to a constant
// once U is instantiated.
func wordBits[U Word]() uint {
	var u U
	if _, ok := any(u).(uint32); ok {
		return 32
	}
	return 64
}

// mantBits returns the number of explicit significand bits of T.
func mantBits[T Real]() uint {
	if Width[T]() == 32 {
		return 23
	}
	return 52
}

// floatBits reinterprets x as its IEEE 754 encoding.
func floatBits[T Real, U Word](x T) U {
	switch v := any(x).(type) {
	case float32:
		return U(math.Float32bits(v))
	default:
		return U(math.Float64bits(v.(float64)))
	}
}

// fromBits reinterprets an IEEE 754 encoding as a float.
func fromBits[T Real, U Word](u U) T {
	if wordBits[U]() == 32 {
		return T(math.Float32frombits(uint32(u)))
	}
	return T(math.Float64frombits(uint64(u)))
}

// signXor folds s, which is either zero or a lone sign bit, into the sign
// of x. The candidate x must be non-negative.
func signXor[T Real, U Word](x T, s U) T {
	return fromBits[T, U](floatBits[T, U](x) ^ s)
}

// arithShift shifts u right by sh bits, replicating the top bit as a
// signed shift would.
func arithShift[U Word](u U, sh uint) U {
	if wordBits[U]() == 32 {
		return U(uint32(int32(uint32(u)) >> sh))
	}
	return U(uint64(int64(uint64(u)) >> sh))
}

// genWord draws one full-width uniform word from src.
func genWord[U Word](src Source) U {
	if wordBits[U]() == 32 {
		return U(src.Uint32())
	}
	return U(src.Uint64())
}

// castWord converts a random word to a float by value (round to nearest).
func castWord[T Real, U Word](u U) T {
	return T(u)
}

// roundToWord converts a non-negative float to a word with saturating
// round-to-nearest.
func roundToWord[T Real, U Word](x T) U {
	r := math.Round(float64(x))
	if r <= 0 {
		return 0
	}
	max := float64(^U(0))
	if r >= max {
		return ^U(0)
	}
	return U(r)
}

// Unit draws a uniform float in [0, 1). The word is shifted down to the
// significand width plus the implicit bit, then scaled.
func Unit[T Real](src Source) T {
	if Width[T]() == 32 {
		return T(float32(src.Uint32()>>8) * (1.0 / (1 << 24)))
	}
	return T(float64(src.Uint64()>>11) * (1.0 / (1 << 53)))
}

// fma computes x*a + b with a single rounding where the platform allows.
func fma[T Real](x, a, b T) T {
	return T(math.FMA(float64(x), float64(a), float64(b)))
}

// Elementary functions over Real. The float32 instantiations compute
// through float64, which keeps them correctly rounded for construction-time
// use.

// Ln returns the natural logarithm of x.
func Ln[T Real](x T) T { return T(math.Log(float64(x))) }

// Log2 returns the base-2 logarithm of x.
func Log2[T Real](x T) T { return T(math.Log2(float64(x))) }

// Exp returns e**x.
func Exp[T Real](x T) T { return T(math.Exp(float64(x))) }

// Sqrt returns the square root of x.
func Sqrt[T Real](x T) T { return T(math.Sqrt(float64(x))) }

// Pow returns x**y.
func Pow[T Real](x, y T) T { return T(math.Pow(float64(x), float64(y))) }

// Tan returns the tangent of x.
func Tan[T Real](x T) T { return T(math.Tan(float64(x))) }

// Atan returns the arctangent of x.
func Atan[T Real](x T) T { return T(math.Atan(float64(x))) }

// Erf returns the error function of x.
func Erf[T Real](x T) T { return T(math.Erf(float64(x))) }

// Erfc returns the complementary error function of x.
func Erfc[T Real](x T) T { return T(math.Erfc(float64(x))) }

// Abs returns the absolute value of x.
func Abs[T Real](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// Func is a univariate function over T.
//
// Test reports whether a*f(x) > b for strictly positive a and b. The
// default wrapper evaluates f directly; distributions whose PDF has the
// form 1/g(x) override it with the division-less test a > b*g(x).
type Func[T Real] interface {
	Eval(x T) T
	Test(x, a, b T) bool
}

// FuncOf wraps a plain function into a Func with the trivial Test.
func FuncOf[T Real](f func(T) T) Func[T] {
	return funcOf[T]{f}
}

type funcOf[T Real] struct {
	f func(T) T
}

func (w funcOf[T]) Eval(x T) T { return w.f(x) }

func (w funcOf[T]) Test(x, a, b T) bool { return a*w.f(x) > b }

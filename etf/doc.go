package etf

// Package etf implements Equal-area Table Function samplers, a
// generalisation of the Ziggurat method for drawing pseudo-random values
// from continuous univariate distributions with analytically known
// densities.
//
// At construction time a Newton solver partitions the support into
// sub-intervals whose circumscribed rectangles all have the same area; at
// sampling time a single uniform word is folded into a table index, an
// in-cell position, an optional sign bit and a tail-branch switch, so the
// fast path of the sampling loop costs one word, one comparison and one
// fused multiply-add. The dist package builds on these primitives to
// provide ready-made distributions.

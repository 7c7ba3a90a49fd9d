// Package gray implements the fixed-weight RGB to luminance transform.
package gray

import "math"

const (
	WeightR = 0.299
	WeightG = 0.587
	WeightB = 0.114
)

// Luminance returns floor(0.299*r + 0.587*g + 0.114*b).
//
// The sum is evaluated as the fused chain fma(WeightB, b, fma(WeightG, g, WeightR*r)).
// math.FMA rounds once per step on every architecture, and this order yields
// 254 for white where a plain left-to-right sum rounds up to 255.
func Luminance(r, g, b uint8) uint8 {
	return uint8(math.FMA(WeightB, float64(b), math.FMA(WeightG, float64(g), WeightR*float64(r))))
}

// ConvertRow converts one packed RGB row into one gray row.
// src must hold 3*len(dst) bytes.
func ConvertRow(dst, src []byte) {
	src = src[:len(dst)*3]
	for x := range dst {
		i := x * 3
		dst[x] = Luminance(src[i], src[i+1], src[i+2])
	}
}

// ChannelTables caches the red products and the byte-to-float conversions
// used by the fused chain.
type ChannelTables struct {
	R     [256]float64
	Value [256]float64
}

// Lookup evaluates the same fused chain as Luminance, so the two agree bit for bit.
func (t *ChannelTables) Lookup(r, g, b uint8) uint8 {
	return uint8(math.FMA(WeightB, t.Value[b], math.FMA(WeightG, t.Value[g], t.R[r])))
}

// Tables builds the lookup tables.
func Tables() *ChannelTables {
	t := &ChannelTables{}
	for i := 0; i < 256; i++ {
		v := float64(i)
		t.R[i] = WeightR * v
		t.Value[i] = v
	}
	return t
}

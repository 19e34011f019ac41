package raster

import (
	m "math"
)

const encodeSteps = 1 << 14

var (
	decodeLUT [256]float32
	encodeLUT [encodeSteps + 1]uint8
)

func init() {
	for i := range decodeLUT {
		decodeLUT[i] = float32(srgbToLinear(float64(i) / 255))
	}
	for i := range encodeLUT {
		encodeLUT[i] = uint8(m.Round(linearToSRGB(float64(i)/encodeSteps) * 255))
	}
}

func srgbToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return m.Pow((c+0.055)/1.055, 2.4)
}

func linearToSRGB(c float64) float64 {
	if c <= 0.0031308 {
		return c * 12.92
	}
	return 1.055*m.Pow(c, 1/2.4) - 0.055
}

// encode converts a linear channel value to an sRGB byte.
func encode(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return encodeLUT[int(v*encodeSteps+0.5)]
}

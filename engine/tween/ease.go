package tween

import (
	"fmt"
	m "math"
	"strings"
)

// Ease maps linear progress in [0, 1] to eased progress.
type Ease func(p float64) float64

const DefaultEaseName = "power1.out"

func Linear(p float64) float64 { return p }

func powerIn(power float64) Ease {
	return func(p float64) float64 { return m.Pow(p, power) }
}

func powerOut(power float64) Ease {
	return func(p float64) float64 { return 1 - m.Pow(1-p, power) }
}

func powerInOut(power float64) Ease {
	return func(p float64) float64 {
		if p < 0.5 {
			return m.Pow(2*p, power) / 2
		}
		return 1 - m.Pow(2*(1-p), power)/2
	}
}

func SineIn(p float64) float64    { return 1 - m.Cos(p*m.Pi/2) }
func SineOut(p float64) float64   { return m.Sin(p * m.Pi / 2) }
func SineInOut(p float64) float64 { return -(m.Cos(m.Pi*p) - 1) / 2 }

var eases = map[string]Ease{
	"none":         Linear,
	"linear":       Linear,
	"power1.in":    powerIn(2),
	"power1.out":   powerOut(2),
	"power1.inout": powerInOut(2),
	"power2.in":    powerIn(3),
	"power2.out":   powerOut(3),
	"power2.inout": powerInOut(3),
	"power3.in":    powerIn(4),
	"power3.out":   powerOut(4),
	"power3.inout": powerInOut(4),
	"sine.in":      SineIn,
	"sine.out":     SineOut,
	"sine.inout":   SineInOut,
}

// EaseByName resolves names such as "power1.out" or "sine.inOut".
// An empty name selects the default ease.
func EaseByName(name string) (Ease, error) {
	if name == "" {
		name = DefaultEaseName
	}
	key := strings.ToLower(name)
	// "power1" alone means its out variant
	if !strings.Contains(key, ".") && key != "none" && key != "linear" {
		key += ".out"
	}
	e, ok := eases[key]
	if !ok {
		return nil, fmt.Errorf("unknown ease `%s`", name)
	}
	return e, nil
}

// DefaultEase is power1.out.
func DefaultEase() Ease {
	return eases[DefaultEaseName]
}

// Copyright © 2026 WrapPac contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vterm/palette.go
// Summary: The xterm 256-color palette and RGB quantization helpers.
// Usage: Color resolution for SGR sequences and render-side mapping.
// Notes: PaletteRGB is a pure function; same index always yields the same triple.

package vterm

import "github.com/lucasb-eyer/go-colorful"

// ansiBase holds the first 16 palette entries (standard + bright ANSI colors).
var ansiBase = [16][3]uint8{
	{0, 0, 0}, {128, 0, 0}, {0, 128, 0}, {128, 128, 0},
	{0, 0, 128}, {128, 0, 128}, {0, 128, 128}, {192, 192, 192},
	{128, 128, 128}, {255, 0, 0}, {0, 255, 0}, {255, 255, 0},
	{0, 0, 255}, {255, 0, 255}, {0, 255, 255}, {255, 255, 255},
}

// cubeLevels are the channel values of the 6x6x6 color cube (indices 16-231).
var cubeLevels = [6]uint8{0, 95, 135, 175, 215, 255}

// PaletteRGB maps a 256-color palette index to its RGB triple.
// Indices 0-15 are the ANSI colors, 16-231 the 6x6x6 cube and
// 232-255 the 24-step grayscale ramp.
func PaletteRGB(idx uint8) (r, g, b uint8) {
	switch {
	case idx < 16:
		c := ansiBase[idx]
		return c[0], c[1], c[2]
	case idx <= 231:
		n := int(idx) - 16
		return cubeLevels[(n/36)%6], cubeLevels[(n/6)%6], cubeLevels[n%6]
	default:
		shade := uint8(8 + int(idx-232)*10)
		return shade, shade, shade
	}
}

// RGB returns the concrete RGB triple a color resolves to. Default colors
// resolve to the given fallback triple.
func (c Color) RGB(fallbackR, fallbackG, fallbackB uint8) (r, g, b uint8) {
	switch c.Mode {
	case ColorModeStandard, ColorMode256:
		return PaletteRGB(c.Value)
	case ColorModeRGB:
		return c.R, c.G, c.B
	default:
		return fallbackR, fallbackG, fallbackB
	}
}

// paletteLab caches the palette converted to Lab space for quantization.
var paletteLab = func() [256]colorful.Color {
	var p [256]colorful.Color
	for i := 0; i < 256; i++ {
		r, g, b := PaletteRGB(uint8(i))
		p[i] = colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	}
	return p
}()

// NearestPaletteIndex maps an RGB triple to the closest 256-palette entry by
// perceptual (Lab) distance. Used when a direct-color SGR sequence has to be
// displayed on a 256-color surface.
func NearestPaletteIndex(r, g, b uint8) uint8 {
	target := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	best := 0
	bestDist := -1.0
	for i := range paletteLab {
		d := target.DistanceLab(paletteLab[i])
		if bestDist < 0 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	return uint8(best)
}

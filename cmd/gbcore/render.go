package main

import "github.com/student/gbcore/gbcore/video"

// shadeFor maps an RGB triplet back to one of the fixed palette's four
// indices, for the host's text-mode rendering. Grounded on the
// teacher's render/utils.go PixelToShade, adapted from packed-uint32
// pixels to the RGB-byte-triplet framebuffer spec.md 6 specifies.
func shadeFor(r, g, b byte) int {
	for i, c := range video.Palette {
		if c[0] == r && c[1] == g && c[2] == b {
			return i
		}
	}
	return 0
}

var shadeChars = []rune{'█', '▓', '▒', '░'}

// halfBlockChar picks a block-drawing character for a pair of stacked
// shades, matching the teacher's GetHalfBlockChar convention: equal
// shades collapse to a full block, a white/non-white pair picks the
// half block that puts white on the matching side.
func halfBlockChar(top, bottom int) rune {
	switch {
	case top == bottom:
		return '█'
	case top == 0 && bottom != 0:
		return '▄'
	case top != 0 && bottom == 0:
		return '▀'
	default:
		return '▀'
	}
}

// renderFrameToHalfBlocks converts an RGB framebuffer into one text
// line per two pixel rows.
func renderFrameToHalfBlocks(frame []byte, width, height int) []string {
	textHeight := (height + 1) / 2
	lines := make([]string, textHeight)

	pixelShade := func(row, col int) int {
		off := (row*width + col) * 3
		return shadeFor(frame[off], frame[off+1], frame[off+2])
	}

	for row := 0; row < textHeight; row++ {
		line := make([]rune, width)
		topRow := row * 2
		bottomRow := topRow + 1

		for x := 0; x < width; x++ {
			top := pixelShade(topRow, x)
			bottom := 0
			if bottomRow < height {
				bottom = pixelShade(bottomRow, x)
			}
			line[x] = halfBlockChar(top, bottom)
		}
		lines[row] = string(line)
	}

	return lines
}

package video

// Width and Height are the pixel unit's visible resolution (spec.md 6).
const (
	Width  = 160
	Height = 144
)

// palette is the fixed 4-color table every logical color index maps
// through, per spec.md 4.5. Values confirmed against the original
// source's COLOR_MAP (_examples/original_source/src/gpu.rs).
var palette = [4][3]byte{
	{0x9B, 0xBC, 0x0F},
	{0x8B, 0xAC, 0x0F},
	{0x30, 0x62, 0x30},
	{0x0F, 0x38, 0x0F},
}

// Palette exposes the fixed 4-color table so a host renderer can map
// framebuffer RGB triplets back to a shade without duplicating the table.
var Palette = palette

// FrameBuffer is the 160x144 row-major, 3-bytes-per-pixel RGB surface
// the host reads via Console.Frame().
type FrameBuffer struct {
	pixels [Width * Height * 3]byte
}

// SetPixel writes the logical color (0-3) at (x, y) through the fixed palette.
func (f *FrameBuffer) SetPixel(x, y int, color uint8) {
	offset := (y*Width + x) * 3
	rgb := palette[color&0x03]
	f.pixels[offset] = rgb[0]
	f.pixels[offset+1] = rgb[1]
	f.pixels[offset+2] = rgb[2]
}

// Bytes returns the read-only RGB framebuffer, per spec.md 6's
// `frame() -> &[u8; 160*144*3]`.
func (f *FrameBuffer) Bytes() []byte {
	return f.pixels[:]
}

// Clear fills the whole buffer with logical color 0. The scanline
// renderer does not call it; a disabled background is cleared one line
// at a time by PixelUnit.clearLine.
func (f *FrameBuffer) Clear() {
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			f.SetPixel(x, y, 0)
		}
	}
}

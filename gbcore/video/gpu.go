// Package video implements the pixel unit: the display mode state
// machine and the background/window/sprite scanline renderer
// (spec.md 4.5).
package video

import "github.com/student/gbcore/gbcore/addr"

// Mode is one of the four pixel-unit states.
type Mode uint8

const (
	OamRead Mode = iota
	LcdTransfer
	HBlank
	VBlank
)

// LCDC bit masks.
const (
	lcdcEnable        = 0x80
	lcdcWindowTileMap = 0x40
	lcdcWindowEnable  = 0x20
	lcdcTileDataBase  = 0x10
	lcdcBGTileMap     = 0x08
	lcdcSpriteSize    = 0x04
	lcdcBGPriority    = 0x01
)

// STAT bit masks.
const (
	statLYCEnable = 0x40
	statLYCFlag   = 0x04
	statModeMask  = 0x03
)

// PixelUnit owns VRAM, OAM, the framebuffer and every LCD register.
// Grounded on the mode-timing state machine of
// _examples/original_source/src/gpu.rs and the scanline rendering
// (including the bgIndexLine-based sprite priority check) of the
// teacher's jeebie/video/gpu.go.
type PixelUnit struct {
	mode   Mode
	cycles int

	vram [0x2000]byte
	oam  [0xA0]byte
	fb   FrameBuffer

	// bgIndexLine holds the raw (pre-palette) BG/window color index for
	// the scanline currently being composited, so sprite priority can
	// test "background color index 0" rather than the final RGB pixel
	// (the original source's is_pixel_blank checks literal black RGB,
	// which is wrong whenever color 0 isn't mapped to black — see
	// DESIGN.md).
	bgIndexLine [Width]uint8

	LCDC, STAT      uint8
	SCY, SCX        uint8
	LY, LYC         uint8
	BGP, OBP0, OBP1 uint8
	WY, WX          uint8
	lycMatchPrev    bool
	newFrame        bool
}

// New returns a PixelUnit in its post-boot state: mode HBlank, LCDC off.
func New() *PixelUnit {
	p := &PixelUnit{mode: HBlank}
	return p
}

// ReadVRAM/WriteVRAM address VRAM by absolute guest address (0x8000-0x9FFF).
func (p *PixelUnit) ReadVRAM(a uint16) uint8     { return p.vram[a-addr.VRAMStart] }
func (p *PixelUnit) WriteVRAM(a uint16, v uint8) { p.vram[a-addr.VRAMStart] = v }

// ReadOAM/WriteOAM address OAM by absolute guest address (0xFE00-0xFE9F).
func (p *PixelUnit) ReadOAM(a uint16) uint8     { return p.oam[a-addr.OAMStart] }
func (p *PixelUnit) WriteOAM(a uint16, v uint8) { p.oam[a-addr.OAMStart] = v }

// NewFrame reports whether a frame just completed, per spec.md 6
// `new_frame()`. The caller is expected to consume it.
func (p *PixelUnit) NewFrame() bool {
	v := p.newFrame
	p.newFrame = false
	return v
}

// Frame returns the current framebuffer's RGB bytes.
func (p *PixelUnit) Frame() []byte { return p.fb.Bytes() }

func (p *PixelUnit) setMode(m Mode) {
	p.mode = m
	p.STAT = (p.STAT &^ statModeMask) | uint8(m)
}

// Step advances the mode machine by cycles and returns the bits newly
// raised into IF (VBlank and/or STAT), per spec.md 4.5 and 4.9.
func (p *PixelUnit) Step(cycles int) addr.Interrupt {
	var raised addr.Interrupt
	p.cycles += cycles

	advancing := true
	for advancing {
		switch p.mode {
		case OamRead:
			if p.cycles < 80 {
				advancing = false
				break
			}
			p.cycles -= 80
			p.setMode(LcdTransfer)
		case LcdTransfer:
			if p.cycles < 172 {
				advancing = false
				break
			}
			p.cycles -= 172
			p.renderScanline()
			p.setMode(HBlank)
		case HBlank:
			if p.cycles < 204 {
				advancing = false
				break
			}
			p.cycles -= 204
			p.LY++
			if p.LY == 144 {
				raised |= addr.VBlank
				p.newFrame = true
				p.setMode(VBlank)
			} else {
				p.setMode(OamRead)
			}
		case VBlank:
			if p.cycles < 456 {
				advancing = false
				break
			}
			p.cycles -= 456
			p.LY++
			if p.LY >= 154 {
				p.LY = 0
				p.setMode(OamRead)
			}
		}
	}

	raised |= p.checkLYC()
	return raised
}

// checkLYC updates the LY==LYC coincidence flag (STAT bit 2, spec.md 3)
// and requests the STAT interrupt only on the transition into equality,
// gated by the LYC-interrupt-enable bit (STAT bit 6) — the redesign
// spec.md 9 calls for (fire on edge, not level) applied against the
// real hardware's flag/enable split rather than spec.md 4.5's literal
// "set STAT bit 6" wording, which would otherwise contradict spec.md 3's
// "bit 2 set on LY==LYC"; see DESIGN.md.
func (p *PixelUnit) checkLYC() addr.Interrupt {
	match := p.LY == p.LYC

	var raised addr.Interrupt
	if match && !p.lycMatchPrev && p.STAT&statLYCEnable != 0 {
		raised = addr.LCDSTAT
	}

	if match {
		p.STAT |= statLYCFlag
	} else {
		p.STAT &^= statLYCFlag
	}
	p.lycMatchPrev = match

	return raised
}

func (p *PixelUnit) renderScanline() {
	if p.LCDC&lcdcEnable != 0 && p.LCDC&lcdcBGPriority != 0 {
		p.renderBackground()
	} else {
		p.clearLine()
	}
	if p.LCDC&lcdcWindowEnable != 0 {
		p.renderWindow()
	}
	p.renderSprites()
}

func (p *PixelUnit) clearLine() {
	for x := 0; x < Width; x++ {
		p.fb.SetPixel(x, int(p.LY), 0)
		p.bgIndexLine[x] = 0
	}
}

// tileDataPointer resolves the VRAM address of tile data, applying the
// signed-index rule when LCDC bit 4 is clear (spec.md 9 "signed tile index").
func (p *PixelUnit) tileDataPointer(tileIndex uint8) uint16 {
	if p.LCDC&lcdcTileDataBase != 0 {
		return addr.TileData0 + uint16(tileIndex)*16
	}
	return uint16(int32(addr.TileData1) + int32(int8(tileIndex))*16)
}

func (p *PixelUnit) colorIndexAt(tileBase uint16, rowOffset uint8, bitIdx uint8) uint8 {
	ptr := tileBase + uint16(rowOffset)*2
	lo := p.ReadVRAM(ptr)
	hi := p.ReadVRAM(ptr + 1)
	low := (lo >> bitIdx) & 1
	high := (hi >> bitIdx) & 1
	return high<<1 | low
}

func (p *PixelUnit) renderBackground() {
	tileMapBase := addr.TileMap0
	if p.LCDC&lcdcBGTileMap != 0 {
		tileMapBase = addr.TileMap1
	}

	ly := int(p.LY)
	for x := 0; x < Width; x++ {
		scrolledX := (int(p.SCX) + x) % 256
		scrolledY := (int(p.SCY) + ly) % 256
		tileRow := uint16(scrolledY / 8 % 32)
		tileCol := uint16(scrolledX / 8 % 32)

		tileIndexAddr := tileMapBase + tileRow*32 + tileCol
		tileIndex := p.ReadVRAM(tileIndexAddr)

		tileBase := p.tileDataPointer(tileIndex)
		rowOffset := uint8(scrolledY % 8)
		bitIdx := uint8(7 - (scrolledX % 8))

		colorIdx := p.colorIndexAt(tileBase, rowOffset, bitIdx)
		p.bgIndexLine[x] = colorIdx
		p.fb.SetPixel(x, ly, (p.BGP>>(colorIdx*2))&0x03)
	}
}

func (p *PixelUnit) renderWindow() {
	if int(p.LY) < int(p.WY) {
		return
	}

	tileMapBase := addr.TileMap0
	if p.LCDC&lcdcWindowTileMap != 0 {
		tileMapBase = addr.TileMap1
	}

	wx := int(p.WX) - 7
	winY := int(p.LY) - int(p.WY)
	ly := int(p.LY)

	for x := 0; x < Width; x++ {
		if x < wx {
			continue
		}
		winX := x - wx

		tileRow := uint16((winY / 8) % 32)
		tileCol := uint16((winX / 8) % 32)
		tileIndexAddr := tileMapBase + tileRow*32 + tileCol
		tileIndex := p.ReadVRAM(tileIndexAddr)

		tileBase := p.tileDataPointer(tileIndex)
		rowOffset := uint8(winY % 8)
		bitIdx := uint8(7 - (winX % 8))

		colorIdx := p.colorIndexAt(tileBase, rowOffset, bitIdx)
		p.bgIndexLine[x] = colorIdx
		p.fb.SetPixel(x, ly, (p.BGP>>(colorIdx*2))&0x03)
	}
}

func (p *PixelUnit) renderSprites() {
	height := 8
	if p.LCDC&lcdcSpriteSize != 0 {
		height = 16
	}
	ly := int(p.LY)

	for i := 0; i < 40; i++ {
		base := i * 4
		spriteY := int(p.oam[base+0]) - 16
		spriteX := int(p.oam[base+1]) - 8
		tileIndex := p.oam[base+2]
		attrs := p.oam[base+3]

		if ly < spriteY || ly >= spriteY+height {
			continue
		}

		rowInTile := ly - spriteY
		if attrs&0x40 != 0 { // Y flip
			rowInTile = height - 1 - rowInTile
		}

		effIndex := tileIndex
		if height == 16 {
			effIndex &= 0xFE
			if rowInTile >= 8 {
				effIndex++
				rowInTile -= 8
			}
		}

		tileBase := addr.TileData0 + uint16(effIndex)*16
		lo := p.ReadVRAM(tileBase + uint16(rowInTile)*2)
		hi := p.ReadVRAM(tileBase + uint16(rowInTile)*2 + 1)

		xFlip := attrs&0x20 != 0
		priority := attrs&0x80 != 0
		useOBP1 := attrs&0x10 != 0

		for col := 0; col < 8; col++ {
			screenX := spriteX + col
			if screenX < 0 || screenX >= Width {
				continue
			}

			bitIdx := uint8(7 - col)
			if xFlip {
				bitIdx = uint8(col)
			}

			low := (lo >> bitIdx) & 1
			high := (hi >> bitIdx) & 1
			colorIdx := high<<1 | low
			if colorIdx == 0 {
				continue
			}

			if priority && p.bgIndexLine[screenX] != 0 {
				continue
			}

			palette := p.OBP0
			if useOBP1 {
				palette = p.OBP1
			}
			p.fb.SetPixel(screenX, ly, (palette>>(colorIdx*2))&0x03)
		}
	}
}

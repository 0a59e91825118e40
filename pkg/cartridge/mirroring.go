package cartridge

// Mirroring selects how the PPU's 2 KiB of physical nametable RAM is
// mapped onto the 4 KiB nametable address region.
type Mirroring uint8

const (
	MirrorHorizontal Mirroring = iota
	MirrorVertical
	MirrorOneScreenLower
	MirrorOneScreenUpper
)

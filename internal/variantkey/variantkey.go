// Package variantkey encodes genomic variants into sortable 64-bit keys.
//
// A VariantKey packs, from the most significant bit:
//
//	CHROM   5 bits
//	POS    28 bits (0-based)
//	REFALT 31 bits
//
// Because chromosome and position occupy the high-order bits, sorting keys
// numerically sorts variants by (chromosome, position).
package variantkey

import (
	"errors"
	"fmt"
	"strconv"
)

// Bit layout.
const (
	chromShift = 59
	posShift   = 31

	chromMask  = 0x1F
	posMask    = 0x0FFFFFFF
	refAltMask = 0x7FFFFFFF
)

// MaxPos is the largest position that fits in a key.
const MaxPos = posMask

// MaxChrom is the largest chromosome code that fits in a key.
const MaxChrom = chromMask

// ErrInvalidHex is returned when a hex-encoded key cannot be parsed.
var ErrInvalidHex = errors.New("invalid variantkey hex")

// Key is a decoded VariantKey.
type Key struct {
	Chrom  uint8
	Pos    uint32
	RefAlt uint32
}

// Encode builds a VariantKey from its textual components.
// pos is 0-based; values above MaxPos are truncated to 28 bits.
func Encode(chrom string, pos uint32, ref, alt string) uint64 {
	return Pack(EncodeChrom(chrom), pos, EncodeRefAlt(ref, alt))
}

// Pack combines already-encoded components into a VariantKey.
func Pack(chrom uint8, pos uint32, refalt uint32) uint64 {
	return uint64(chrom&chromMask)<<chromShift |
		uint64(pos&posMask)<<posShift |
		uint64(refalt&refAltMask)
}

// Decode splits a VariantKey into its components.
func Decode(vk uint64) Key {
	return Key{
		Chrom:  uint8((vk >> chromShift) & chromMask),
		Pos:    uint32((vk >> posShift) & posMask),
		RefAlt: uint32(vk & refAltMask),
	}
}

// Range returns the smallest and largest keys for positions posMin..posMax
// on chrom. The bounds are inclusive. posMax is clamped to MaxPos.
func Range(chrom uint8, posMin, posMax uint32) (uint64, uint64) {
	if posMax > MaxPos {
		posMax = MaxPos
	}
	if posMin > MaxPos {
		posMin = MaxPos
	}
	return Pack(chrom, posMin, 0), Pack(chrom, posMax, refAltMask)
}

// Hex returns the 16-digit lowercase hexadecimal form of vk.
func Hex(vk uint64) string {
	return fmt.Sprintf("%016x", vk)
}

// ParseHex parses the form produced by Hex.
func ParseHex(s string) (uint64, error) {
	if len(s) != 16 {
		return 0, fmt.Errorf("%w: %q must have 16 digits", ErrInvalidHex, s)
	}
	vk, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	return vk, nil
}

// String formats a decoded key as CHROM:POS:REF>ALT using the 0-based position.
// Hashed alleles are shown as their hex code.
func (k Key) String() string {
	ref, alt, ok := DecodeRefAlt(k.RefAlt)
	if !ok {
		return fmt.Sprintf("%s:%d:#%08x", DecodeChrom(k.Chrom), k.Pos, k.RefAlt)
	}
	return fmt.Sprintf("%s:%d:%s>%s", DecodeChrom(k.Chrom), k.Pos, ref, alt)
}

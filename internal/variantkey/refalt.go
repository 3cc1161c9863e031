package variantkey

import (
	"strings"

	"github.com/zeebo/xxh3"
)

// maxReversibleBases is the number of 2-bit bases that fit after the two
// 4-bit length fields and the hash flag.
const maxReversibleBases = 11

const hashFlag = 0x1

// EncodeRefAlt encodes the reference and alternate alleles into 31 bits.
//
// Short alleles made only of A, C, G and T are packed reversibly:
// ref length (4 bits), alt length (4 bits), then 2 bits per base with the
// lowest bit clear. Anything else is hashed and the lowest bit is set.
func EncodeRefAlt(ref, alt string) uint32 {
	ref = strings.ToUpper(ref)
	alt = strings.ToUpper(alt)
	if code, ok := packRefAlt(ref, alt); ok {
		return code
	}
	return hashRefAlt(ref, alt)
}

// DecodeRefAlt reverses EncodeRefAlt. ok is false for hashed alleles.
func DecodeRefAlt(code uint32) (ref, alt string, ok bool) {
	code &= refAltMask
	if code&hashFlag != 0 {
		return "", "", false
	}
	sizeRef := int(code>>27) & 0xF
	sizeAlt := int(code>>23) & 0xF
	if sizeRef+sizeAlt > maxReversibleBases {
		return "", "", false
	}

	var sb strings.Builder
	sb.Grow(sizeRef + sizeAlt)
	for i := 0; i < sizeRef+sizeAlt; i++ {
		sb.WriteByte(decodeBase((code >> uint(21-2*i)) & 0x3))
	}
	s := sb.String()
	return s[:sizeRef], s[sizeRef:], true
}

// IsHashed reports whether the REFALT part of vk was hashed.
func IsHashed(vk uint64) bool {
	return vk&hashFlag != 0
}

func packRefAlt(ref, alt string) (uint32, bool) {
	if len(ref)+len(alt) > maxReversibleBases {
		return 0, false
	}
	code := uint32(len(ref))<<27 | uint32(len(alt))<<23
	shift := 21
	for _, s := range [2]string{ref, alt} {
		for i := 0; i < len(s); i++ {
			b, ok := encodeBase(s[i])
			if !ok {
				return 0, false
			}
			code |= b << uint(shift)
			shift -= 2
		}
	}
	return code, true
}

func hashRefAlt(ref, alt string) uint32 {
	h := xxh3.HashString(ref + "\x00" + alt)
	return uint32(h>>32)&refAltMask | hashFlag
}

func encodeBase(c byte) (uint32, bool) {
	switch c {
	case 'A':
		return 0, true
	case 'C':
		return 1, true
	case 'G':
		return 2, true
	case 'T':
		return 3, true
	}
	return 0, false
}

func decodeBase(b uint32) byte {
	return "ACGT"[b]
}

package variantkey

import "strconv"

// Chromosome codes for the non-numeric human chromosomes.
const (
	ChromNA uint8 = 0
	ChromX  uint8 = 23
	ChromY  uint8 = 24
	ChromMT uint8 = 25
)

// EncodeChrom maps a chromosome name to its 5-bit code.
// An optional "chr" prefix is ignored. Unknown names encode as ChromNA.
func EncodeChrom(chrom string) uint8 {
	if len(chrom) > 3 && (chrom[0] == 'c' || chrom[0] == 'C') &&
		(chrom[1] == 'h' || chrom[1] == 'H') &&
		(chrom[2] == 'r' || chrom[2] == 'R') {
		chrom = chrom[3:]
	}

	switch chrom {
	case "X", "x":
		return ChromX
	case "Y", "y":
		return ChromY
	case "M", "m", "MT", "mt", "Mt":
		return ChromMT
	}

	n, err := strconv.ParseUint(chrom, 10, 8)
	if err != nil || n < 1 || n > 22 {
		return ChromNA
	}
	return uint8(n)
}

// DecodeChrom maps a chromosome code back to its name without prefix.
func DecodeChrom(code uint8) string {
	switch {
	case code >= 1 && code <= 22:
		return strconv.Itoa(int(code))
	case code == ChromX:
		return "X"
	case code == ChromY:
		return "Y"
	case code == ChromMT:
		return "MT"
	}
	return "NA"
}

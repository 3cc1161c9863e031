package annotate

import (
	"iter"
	"slices"

	"github.com/inodb/vibe-rsid/internal/variantkey"
)

// mapLookup is an in-memory RsIDLookup keyed by VariantKey.
type mapLookup map[uint64][]uint32

func (m mapLookup) RsIDsByVariantKey(vk uint64) iter.Seq[uint32] {
	return slices.Values(m[vk])
}

// vcfKey encodes a 1-based VCF coordinate.
func vcfKey(chrom string, pos uint32, ref, alt string) uint64 {
	return variantkey.Encode(chrom, pos-1, ref, alt)
}

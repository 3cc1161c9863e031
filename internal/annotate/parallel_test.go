package annotate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-rsid/internal/vcf"
)

func makeItems(n int) <-chan WorkItem {
	ch := make(chan WorkItem, n)
	for i := range n {
		ch <- WorkItem{
			Seq:   i,
			Extra: i,
			Variant: &vcf.Variant{
				Chrom: "1",
				Pos:   int64(100 + i),
				Ref:   "A",
				Alt:   "T",
			},
		}
	}
	close(ch)
	return ch
}

func TestParallelAnnotate_OrderPreservation(t *testing.T) {
	ann := NewAnnotator(mapLookup{})

	results := ann.ParallelAnnotate(makeItems(200), 8)

	var collected []int
	err := OrderedCollect(results, func(r WorkResult) error {
		require.NoError(t, r.Err)
		collected = append(collected, r.Seq)
		return nil
	})
	require.NoError(t, err)

	assert.Len(t, collected, 200)
	for i, seq := range collected {
		assert.Equal(t, i, seq, "result %d out of order", i)
	}
}

func TestParallelAnnotate_SingleWorker(t *testing.T) {
	ann := NewAnnotator(mapLookup{})

	results := ann.ParallelAnnotate(makeItems(50), 1)

	var collected []int
	err := OrderedCollect(results, func(r WorkResult) error {
		collected = append(collected, r.Seq)
		return nil
	})
	require.NoError(t, err)

	assert.Len(t, collected, 50)
	for i, seq := range collected {
		assert.Equal(t, i, seq)
	}
}

func TestParallelAnnotate_EmptyInput(t *testing.T) {
	ann := NewAnnotator(mapLookup{})

	ch := make(chan WorkItem)
	close(ch)
	results := ann.ParallelAnnotate(ch, 4)

	count := 0
	err := OrderedCollect(results, func(r WorkResult) error {
		count++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestOrderedCollect_EarlyError(t *testing.T) {
	ann := NewAnnotator(mapLookup{})

	results := ann.ParallelAnnotate(makeItems(100), 4)

	count := 0
	err := OrderedCollect(results, func(r WorkResult) error {
		count++
		if count == 5 {
			return fmt.Errorf("stop at 5")
		}
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, 5, count)
}

func TestParallelAnnotate_FindsRsIDs(t *testing.T) {
	lookup := mapLookup{}
	for i := range 5 {
		lookup[vcfKey("1", uint32(100+i), "A", "T")] = []uint32{uint32(1000 + i)}
	}
	ann := NewAnnotator(lookup)

	results := ann.ParallelAnnotate(makeItems(5), 2)

	err := OrderedCollect(results, func(r WorkResult) error {
		require.NoError(t, r.Err)
		require.Len(t, r.Anns, 1)
		assert.Equal(t, []uint32{uint32(1000 + r.Seq)}, r.Anns[0].RsIDs)
		return nil
	})
	require.NoError(t, err)
}

func TestParallelAnnotate_ExtraPreserved(t *testing.T) {
	ann := NewAnnotator(mapLookup{})

	err := OrderedCollect(ann.ParallelAnnotate(makeItems(50), 4), func(r WorkResult) error {
		assert.Equal(t, r.Seq, r.Extra.(int))
		return nil
	})
	require.NoError(t, err)
}

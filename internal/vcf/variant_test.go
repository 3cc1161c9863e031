package vcf

import "testing"

func TestVariant_Line(t *testing.T) {
	tests := []struct {
		name string
		v    Variant
		want string
	}{
		{
			name: "sites only",
			v:    Variant{Chrom: "1", Pos: 100, Ref: "A", Alt: "C"},
			want: "1\t100\t.\tA\tC\t.\t.\t.",
		},
		{
			name: "with samples",
			v: Variant{
				Chrom: "chr7", Pos: 140753336, ID: "rs113488022", Ref: "A", Alt: "T",
				Qual: "50", Filter: "PASS", Info: "DP=10", SampleColumns: "GT\t0/1",
			},
			want: "chr7\t140753336\trs113488022\tA\tT\t50\tPASS\tDP=10\tGT\t0/1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Line(); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVariant_Alts(t *testing.T) {
	tests := []struct {
		alt  string
		want int
	}{
		{"C", 1},
		{"C,T", 2},
		{"C,T,G", 3},
		{".", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.alt, func(t *testing.T) {
			v := &Variant{Ref: "A", Alt: tt.alt}
			if got := len(v.Alts()); got != tt.want {
				t.Errorf("len(Alts()) = %d, want %d", got, tt.want)
			}
		})
	}
}

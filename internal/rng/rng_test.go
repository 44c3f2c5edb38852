package rng

import "testing"

func TestNewDeterministic(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 100; i++ {
		if a.Int63() != b.Int63() {
			t.Fatalf("draw %d diverged for identical seeds", i)
		}
	}
}

func TestNewDivergesAcrossSeeds(t *testing.T) {
	a := New(42)
	b := New(43)
	same := 0
	for i := 0; i < 100; i++ {
		if a.Int63() == b.Int63() {
			same++
		}
	}
	if same == 100 {
		t.Fatalf("seeds 42 and 43 produced identical streams")
	}
}

func TestSubSeedsDisjointWithinRound(t *testing.T) {
	base := int64(42)
	dataset := DatasetSeed(base, 1)
	if dataset != base+1000 {
		t.Fatalf("dataset seed = %d, want %d", dataset, base+1000)
	}
	if got := ViewSeed(base, 1); got != dataset+100 {
		t.Fatalf("view seed = %d, want %d", got, dataset+100)
	}
	if got := QuerySeed(base, 1, 3); got != dataset+203 {
		t.Fatalf("query seed = %d, want %d", got, dataset+203)
	}
	if got := TableSeed(dataset, 2); got != dataset+200 {
		t.Fatalf("table seed = %d, want %d", got, dataset+200)
	}
}

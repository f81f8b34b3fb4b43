package core

import (
	"math"
	"math/rand/v2"
)

// SplitOptions controls SplitRecords.
type SplitOptions struct {
	// TestSize is the fraction of records held out, in [0, 1).
	TestSize float64
	Seed     uint64
	// Stratify keeps the label proportions of both splits close to the
	// full dataset.
	Stratify bool
}

// SplitRecords shuffles records with a seeded generator and holds out
// TestSize of them. With Stratify each label contributes
// round(TestSize*n) records, and every label keeps at least one training
// record. The same seed always yields the same split.
func SplitRecords(records []Record, opts SplitOptions) (train, test []Record) {
	if opts.TestSize <= 0 || len(records) == 0 {
		return append([]Record(nil), records...), nil
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))

	if !opts.Stratify {
		shuffled := append([]Record(nil), records...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		n := holdout(len(shuffled), opts.TestSize)
		return shuffled[n:], shuffled[:n]
	}

	groups := make([][]Record, len(Labels))
	for _, r := range records {
		if i := r.Label.Index(); i >= 0 {
			groups[i] = append(groups[i], r)
		}
	}
	for _, g := range groups {
		rng.Shuffle(len(g), func(i, j int) { g[i], g[j] = g[j], g[i] })
		n := holdout(len(g), opts.TestSize)
		test = append(test, g[:n]...)
		train = append(train, g[n:]...)
	}

	rng.Shuffle(len(train), func(i, j int) { train[i], train[j] = train[j], train[i] })
	rng.Shuffle(len(test), func(i, j int) { test[i], test[j] = test[j], test[i] })
	return train, test
}

// holdout returns how many of n records go to the test split.
func holdout(n int, testSize float64) int {
	k := int(math.Round(testSize * float64(n)))
	if k > n-1 {
		k = n - 1
	}
	if k < 0 {
		k = 0
	}
	return k
}

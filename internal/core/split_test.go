package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func manyRecords(ham, spam int) []Record {
	var out []Record
	for i := 0; i < ham; i++ {
		out = append(out, Record{Text: fmt.Sprintf("ham %d", i), Label: Ham})
	}
	for i := 0; i < spam; i++ {
		out = append(out, Record{Text: fmt.Sprintf("spam %d", i), Label: Spam})
	}
	return out
}

func countLabels(records []Record) map[Label]int {
	counts := map[Label]int{}
	for _, r := range records {
		counts[r.Label]++
	}
	return counts
}

func TestSplitRecords_Stratified(t *testing.T) {
	records := manyRecords(80, 20)

	train, test := SplitRecords(records, SplitOptions{TestSize: 0.2, Seed: 42, Stratify: true})

	assert.Len(t, test, 20)
	assert.Len(t, train, 80)
	assert.Equal(t, map[Label]int{Ham: 16, Spam: 4}, countLabels(test))
	assert.Equal(t, map[Label]int{Ham: 64, Spam: 16}, countLabels(train))
}

func TestSplitRecords_Deterministic(t *testing.T) {
	records := manyRecords(30, 12)
	opts := SplitOptions{TestSize: 0.25, Seed: 7, Stratify: true}

	train1, test1 := SplitRecords(records, opts)
	train2, test2 := SplitRecords(records, opts)
	assert.Equal(t, train1, train2)
	assert.Equal(t, test1, test2)

	_, test3 := SplitRecords(records, SplitOptions{TestSize: 0.25, Seed: 8, Stratify: true})
	assert.NotEqual(t, test1, test3)
}

func TestSplitRecords_PartitionsInput(t *testing.T) {
	records := manyRecords(17, 9)

	for _, stratify := range []bool{true, false} {
		train, test := SplitRecords(records, SplitOptions{TestSize: 0.3, Seed: 1, Stratify: stratify})
		assert.Len(t, append(train, test...), len(records))
		assert.ElementsMatch(t, records, append(append([]Record{}, train...), test...))
	}
}

func TestSplitRecords_KeepsTrainingRowPerClass(t *testing.T) {
	train, test := SplitRecords(toyRecords(), SplitOptions{TestSize: 0.2, Seed: 42, Stratify: true})

	counts := countLabels(train)
	assert.GreaterOrEqual(t, counts[Ham], 1)
	assert.GreaterOrEqual(t, counts[Spam], 1)
	assert.Len(t, test, 1)

	train, test = SplitRecords(manyRecords(1, 1), SplitOptions{TestSize: 0.9, Seed: 42, Stratify: true})
	assert.Len(t, train, 2)
	assert.Empty(t, test)
}

func TestSplitRecords_NoHoldout(t *testing.T) {
	records := toyRecords()

	train, test := SplitRecords(records, SplitOptions{})
	assert.Equal(t, records, train)
	assert.Empty(t, test)
}

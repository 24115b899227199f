package internal

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	first := slices.All([]string{"a", "b"})
	second := slices.All([]string{"c"})

	var keys []int
	var values []string
	for key, value := range IterSeq2Concat(first, second) {
		keys = append(keys, key)
		values = append(values, value)
	}
	assert.Equal([]int{0, 1, 0}, keys)
	assert.Equal([]string{"a", "b", "c"}, values)

	// Later sequences win when collected.
	merged := maps.Collect(IterSeq2Concat(
		maps.All(map[string]int{"RAMEND": 1, "ROMSIZE": 2}),
		maps.All(map[string]int{"RAMEND": 3}),
	))
	assert.Equal(map[string]int{"RAMEND": 3, "ROMSIZE": 2}, merged)

	// Early stop.
	count := 0
	for range IterSeq2Concat(first, second) {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(2, count)

	assert.Equal(0, len(maps.Collect(IterSeq2Concat[int, int]())))
}

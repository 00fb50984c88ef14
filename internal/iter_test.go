package internal

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	a := maps.All(map[string]int{"a": 1})

	var keys []string
	var values []int
	for k, v := range IterSeq2Concat(a, maps.All(map[string]int{"b": 2}), maps.All(map[string]int{})) {
		keys = append(keys, k)
		values = append(values, v)
	}
	assert.Equal([]string{"a", "b"}, keys)
	assert.Equal([]int{1, 2}, values)

	// Early exit stops the remaining sequences.
	count := 0
	for range IterSeq2Concat(maps.All(map[string]int{"a": 1}), maps.All(map[string]int{"b": 2})) {
		count++
		break
	}
	assert.Equal(1, count)

	// Nothing to concatenate.
	for range IterSeq2Concat[string, int]() {
		assert.Fail("empty concatenation yielded")
	}
}

package util_test

import (
	"testing"

	"github.com/deep-rent/cling/util"
	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	m := map[string]int{"a": 1, "b": 2}
	keys := util.Keys(m)
	assert.ElementsMatch(t, []string{"a", "b"}, keys)
	assert.Empty(t, util.Keys(map[string]int{}))
}

func TestConcat(t *testing.T) {
	src := []int{1, 2}
	out := util.Concat(src, 3)
	assert.Equal(t, []int{1, 2, 3}, out)
	assert.Equal(t, []int{1, 2}, src)

	cp := util.Concat(src)
	assert.Equal(t, src, cp)
	cp[0] = 9
	assert.Equal(t, 1, src[0])
}

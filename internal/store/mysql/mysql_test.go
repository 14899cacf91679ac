package mysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCartCountsCollapsesDuplicates(t *testing.T) {
	counts, order := cartCounts([]int{3, 3, 5})

	assert.Equal(t, map[int]int{3: 2, 5: 1}, counts)
	assert.Equal(t, []int{3, 5}, order)
}

func TestCartCountsCanonicalLockOrder(t *testing.T) {
	// Carts listing the same products in different orders must lock the
	// rows in the same sequence, or concurrent checkouts deadlock.
	_, forward := cartCounts([]int{3, 5, 7})
	_, backward := cartCounts([]int{7, 5, 3})
	_, shuffled := cartCounts([]int{5, 7, 3, 5})

	assert.Equal(t, []int{3, 5, 7}, forward)
	assert.Equal(t, forward, backward)
	assert.Equal(t, forward, shuffled)
}

func TestCartCountsEmptyCart(t *testing.T) {
	counts, order := cartCounts(nil)

	assert.Empty(t, counts)
	assert.Empty(t, order)
}

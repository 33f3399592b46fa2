// Package orderbook implements the dense, bitset-indexed price-time priority order book and its
// matching algorithm: one Book per symbol, owned by exactly one shard goroutine at a time.
package orderbook

import "github.com/latticebook/matchcore/internal/core"

// node is an intrusive singly-linked-list element living in a book's arena. Next is -1 at list
// end. Active is the tombstone flag: a cancelled node stays in place until the matcher walks over
// it, at which point it is spliced out and its index returned to the freelist.
type node struct {
	order  core.Order
	next   int32
	active bool
}

// arena is a growable pool of nodes addressed by index, with a LIFO freelist of released indices.
// It never shrinks; this bounds the allocator to the high-water mark of resting orders instead of
// churning the Go allocator on every add/cancel.
type arena struct {
	nodes    []node
	freeList []int32
}

func newArena(initialCap int) *arena {
	return &arena{
		nodes:    make([]node, 0, initialCap),
		freeList: make([]int32, 0, initialCap/4+1),
	}
}

// alloc returns the index of a node initialised with order and active=true, reusing a freed slot
// when one is available.
func (a *arena) alloc(order core.Order) int32 {
	if n := len(a.freeList); n > 0 {
		idx := a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
		a.nodes[idx] = node{order: order, next: -1, active: true}
		return idx
	}
	a.nodes = append(a.nodes, node{order: order, next: -1, active: true})
	return int32(len(a.nodes) - 1)
}

// free releases idx back to the freelist. The caller must have already unlinked idx from any
// list it belonged to.
func (a *arena) free(idx int32) {
	a.nodes[idx].active = false
	a.freeList = append(a.freeList, idx)
}

func (a *arena) get(idx int32) *node {
	return &a.nodes[idx]
}

func (a *arena) reset() {
	a.nodes = a.nodes[:0]
	a.freeList = a.freeList[:0]
}

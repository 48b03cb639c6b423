package tree

import "github.com/benz9527/xavl/lib/infra"

// go install golang.org/x/tools/cmd/stringer@latest

//go:generate stringer -type=TraverseOrder
type TraverseOrder uint8

const (
	InOrder TraverseOrder = iota
	PreOrder
	PostOrder
)

//go:generate stringer -type=RotationCase
type RotationCase uint8

const (
	LL RotationCase = iota
	LR
	RR
	RL
)

type BSTNode[K infra.OrderedKey, V any] interface {
	Key() K
	Val() V
	HasVal() bool
	Left() BSTNode[K, V]
	Right() BSTNode[K, V]
}

// BSTree is an ordered binary search tree with unique keys.
// It is not safe for concurrent use, callers have to
// serialize the access by themselves.
type BSTree[K infra.OrderedKey, V any] interface {
	Len() int64
	Height() int
	Root() BSTNode[K, V]
	Min() BSTNode[K, V]
	Max() BSTNode[K, V]
	// Insert the key with an optional payload (only the first val
	// is kept). Returns false if the key is present already.
	Insert(key K, val ...V) bool
	// Delete returns false if the key is absent.
	Delete(key K) bool
	Search(key K) BSTNode[K, V]
	Foreach(order TraverseOrder, action func(idx int64, key K, val V) bool)
	Keys(order TraverseOrder) []K
	Release()
}

// AVLTree keeps |height(right) - height(left)| <= 1 for
// every node after each completed Insert and Delete.
type AVLTree[K infra.OrderedKey, V any] interface {
	BSTree[K, V]
}

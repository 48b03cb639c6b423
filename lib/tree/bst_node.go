package tree

import "github.com/benz9527/xavl/lib/infra"

var _ BSTNode[int, struct{}] = (*bstNode[int, struct{}])(nil)

// bstNode owns its left and right subtrees exclusively.
// No parent link, ancestors are collected per operation.
type bstNode[K infra.OrderedKey, V any] struct {
	left   *bstNode[K, V]
	right  *bstNode[K, V]
	key    K
	val    V
	hasVal bool
}

func (node *bstNode[K, V]) Key() K {
	if node == nil {
		var k K
		return k
	}
	return node.key
}

func (node *bstNode[K, V]) Val() V {
	if node == nil {
		var v V
		return v
	}
	return node.val
}

func (node *bstNode[K, V]) HasVal() bool {
	if node == nil {
		return false
	}
	return node.hasVal
}

func (node *bstNode[K, V]) Left() BSTNode[K, V] {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left
}

func (node *bstNode[K, V]) Right() BSTNode[K, V] {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right
}

func (node *bstNode[K, V]) minimum() *bstNode[K, V] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

func (node *bstNode[K, V]) maximum() *bstNode[K, V] {
	aux := node
	for ; aux != nil && aux.right != nil; aux = aux.right {
	}
	return aux
}

// balanceFactor is height(right) - height(left).
func (node *bstNode[K, V]) balanceFactor() int {
	if node == nil {
		return 0
	}
	return height(node.right) - height(node.left)
}

// height(nil) = 0, height(node) = 1 + max(height(left), height(right)).
// No cached field, the whole subtree is visited.
func height[K infra.OrderedKey, V any](node *bstNode[K, V]) int {
	if node == nil {
		return 0
	}
	return 1 + max(height(node.left), height(node.right))
}

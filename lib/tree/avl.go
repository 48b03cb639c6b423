package tree

import (
	"go.uber.org/zap"

	"github.com/benz9527/xavl/lib/infra"
	"github.com/benz9527/xavl/lib/xlog"
)

var _ AVLTree[int, struct{}] = (*avlTree[int, struct{}])(nil)

// avlTree lets the ordered tree engine do the structural
// mutation, then walks the recorded ancestors bottom-up to
// restore |height(right) - height(left)| <= 1.
type avlTree[K infra.OrderedKey, V any] struct {
	*bsTree[K, V]
	logger          xlog.XLogger
	singleFixDelete bool
}

func (tree *avlTree[K, V]) Insert(key K, val ...V) bool {
	v, hasVal := optionalVal(val)
	path, ok := tree.insert(key, v, hasVal)
	if !ok {
		return false
	}
	tree.rebalance(path, key, opInsert)
	return true
}

func (tree *avlTree[K, V]) Delete(key K) bool {
	path, ok := tree.delete(key)
	if !ok {
		return false
	}
	tree.rebalance(path, key, opDelete)
	return true
}

// rebalance walks the path from the deepest ancestor toward the
// root and rotates the first node whose balance factor exceeds 1.
//
// An insert needs one rotation at most, so the walk stops there.
// A delete may shorten a subtree again after the rotation, the
// walk goes on unless the single fix mode is enabled.
func (tree *avlTree[K, V]) rebalance(path []*bstNode[K, V], refKey K, op treeOp) {
	// Height difference can only exceed 1 from depth 2 on. Not true
	// for delete, a leaf removed at depth 1 may unbalance the root.
	if (op == opInsert || tree.singleFixDelete) && len(path) < 2 {
		return
	}

	for i := len(path) - 1; i >= 0; i-- {
		z := path[i]
		bf := z.balanceFactor()
		if bf >= -1 && bf <= 1 {
			continue
		}

		var parent *bstNode[K, V]
		if i > 0 {
			parent = path[i-1]
		}
		sub, rc := tree.rotate(z, bf, refKey, op)
		tree.replaceChild(parent, z, sub)
		tree.stats.RecordRotation(rc, i)
		if tree.logger != nil {
			tree.logger.Debug("[avltree] rebalanced",
				zap.String("op", string(op)),
				zap.String("case", rc.String()),
				zap.Any("pivot", z.key),
				zap.Any("ref", refKey),
				zap.Int("depth", i),
				zap.Int("path", len(path)),
			)
		}

		if op == opInsert || tree.singleFixDelete {
			return
		}
	}
}

// rotate picks one of the four cases for the unbalanced node z
// and returns the new subtree root.
//
// On insert the zig-zag is decided by the reference key, it lies
// in the heavy child's subtree. On delete the reference key lies
// in the light side, so the heavy child's balance factor decides.
func (tree *avlTree[K, V]) rotate(z *bstNode[K, V], bf int, refKey K, op treeOp) (*bstNode[K, V], RotationCase) {
	if /* left heavy */ bf < 0 {
		y := z.left
		if y == nil {
			// impossible run to here
			panic( /* debug assertion */ "[avltree] left heavy node without left child")
		}
		var zigzag bool
		if op == opInsert {
			zigzag = tree.keyCompare(refKey, y.key) > 0
		} else {
			zigzag = y.balanceFactor() > 0
		}
		if zigzag {
			return rotateLR(z), LR
		}
		return rotateLL(z), LL
	}

	/* right heavy */
	y := z.right
	if y == nil {
		// impossible run to here
		panic( /* debug assertion */ "[avltree] right heavy node without right child")
	}
	var zigzag bool
	if op == opInsert {
		zigzag = tree.keyCompare(refKey, y.key) < 0
	} else {
		zigzag = y.balanceFactor() < 0
	}
	if zigzag {
		return rotateRL(z), RL
	}
	return rotateRR(z), RR
}

/*
LL: right rotate z.

	       z                y
	      / \              / \
	     y   T4           x   z
	    / \      ====>   / \ / \
	   x   T3           T1 T2 T3 T4
	  / \
	T1   T2
*/
func rotateLL[K infra.OrderedKey, V any](z *bstNode[K, V]) *bstNode[K, V] {
	y := z.left
	z.left = y.right
	y.right = z
	return y
}

/*
LR: left rotate y, then right rotate z.

	     z                         x
	    / \                       / \
	   y   T4                    y   z
	  / \         ====>         / \ / \
	T1   x                    T1 T2 T3 T4
	    / \
	  T2   T3
*/
func rotateLR[K infra.OrderedKey, V any](z *bstNode[K, V]) *bstNode[K, V] {
	y := z.left
	x := y.right
	if x == nil {
		// impossible run to here
		panic( /* debug assertion */ "[avltree] LR rotation without the inner grandchild")
	}
	y.right = x.left
	z.left = x.right
	x.left = y
	x.right = z
	return x
}

/*
RR: left rotate z.

	  z                      y
	 / \                    / \
	T1  y                  z   x
	   / \      ====>     / \ / \
	  T2  x              T1 T2 T3 T4
	     / \
	    T3  T4
*/
func rotateRR[K infra.OrderedKey, V any](z *bstNode[K, V]) *bstNode[K, V] {
	y := z.right
	z.right = y.left
	y.left = z
	return y
}

/*
RL: right rotate y, then left rotate z.

	  z                          x
	 / \                        / \
	T1  y                      z   y
	   / \        ====>       / \ / \
	  x   T4                T1 T2 T3 T4
	 / \
	T2  T3
*/
func rotateRL[K infra.OrderedKey, V any](z *bstNode[K, V]) *bstNode[K, V] {
	y := z.right
	x := y.left
	if x == nil {
		// impossible run to here
		panic( /* debug assertion */ "[avltree] RL rotation without the inner grandchild")
	}
	y.left = x.right
	z.right = x.left
	x.left = z
	x.right = y
	return x
}

func NewAVLTree[K infra.OrderedKey, V any](opts ...TreeOption[K]) AVLTree[K, V] {
	cfg := &treeConfig[K]{}
	cfg.apply(opts...)
	return &avlTree[K, V]{
		bsTree:          newBSTree[K, V](cfg),
		logger:          cfg.logger,
		singleFixDelete: cfg.singleFixDelete,
	}
}

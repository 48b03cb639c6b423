package tree

import (
	"github.com/benz9527/xavl/lib/infra"
)

var _ BSTree[int, struct{}] = (*bsTree[int, struct{}])(nil)

// bsTree is the unrestricted ordered tree engine. The mutations
// report the ancestors they visited (root first) so a balancer
// can walk them bottom-up afterwards.
type bsTree[K infra.OrderedKey, V any] struct {
	root  *bstNode[K, V]
	count int64
	cmp   infra.OrderedKeyComparator[K]
	stats *treeStats
}

func (tree *bsTree[K, V]) keyCompare(k1, k2 K) int64 {
	return tree.cmp(k1, k2)
}

func (tree *bsTree[K, V]) Len() int64 {
	return tree.count
}

func (tree *bsTree[K, V]) Height() int {
	return height(tree.root)
}

func (tree *bsTree[K, V]) Root() BSTNode[K, V] {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

func (tree *bsTree[K, V]) Min() BSTNode[K, V] {
	if tree.root == nil {
		return nil
	}
	return tree.root.minimum()
}

func (tree *bsTree[K, V]) Max() BSTNode[K, V] {
	if tree.root == nil {
		return nil
	}
	return tree.root.maximum()
}

func (tree *bsTree[K, V]) Insert(key K, val ...V) bool {
	v, hasVal := optionalVal(val)
	_, ok := tree.insert(key, v, hasVal)
	return ok
}

func (tree *bsTree[K, V]) Delete(key K) bool {
	_, ok := tree.delete(key)
	return ok
}

func (tree *bsTree[K, V]) Search(key K) BSTNode[K, V] {
	node, _ := tree.search(key, nil)
	if node == nil {
		return nil
	}
	return node
}

// insert attaches a new node at the first absent child slot.
// path is root to parent of the new node, the new node itself is
// never recorded. Empty tree results in an empty path.
func (tree *bsTree[K, V]) insert(key K, val V, hasVal bool) (path []*bstNode[K, V], ok bool) {
	z := &bstNode[K, V]{
		key:    key,
		val:    val,
		hasVal: hasVal,
	}
	if tree.root == nil {
		tree.root = z
		tree.count++
		tree.stats.RecordNodes(1)
		return nil, true
	}

	path = make([]*bstNode[K, V], 0, 16)
	for aux := tree.root; ; {
		path = append(path, aux)
		res := tree.keyCompare(key, aux.key)
		if /* equal */ res == 0 {
			tree.stats.IncreaseRejectCount(opInsert)
			return nil, false
		} else /* less */ if res < 0 {
			if aux.left == nil {
				aux.left = z
				break
			}
			aux = aux.left
		} else /* greater */ {
			if aux.right == nil {
				aux.right = z
				break
			}
			aux = aux.right
		}
	}
	tree.count++
	tree.stats.RecordNodes(1)
	return path, true
}

/*
d1: Node Z has at most one child C (or none).
Splice C into the parent's slot (or the root).

	  |                 |
	  P                 P
	 / \    del(Z)     / \
	Z  ..  =======>   C  ..
	 \
	  C

d2: Node Z has both children.
Copy the in-order successor S (leftmost of the right subtree)
into Z after removing S by key. S has no left child, so the
removal of S always enters d1.

	  |                    |
	  Z                    S
	 / \    del(S)        / \
	L   R   copy(S, Z)   L   R
	   /    =========>      /
	  S                   Sr
	   \
	    Sr
*/
func (tree *bsTree[K, V]) delete(key K) (path []*bstNode[K, V], ok bool) {
	path = make([]*bstNode[K, V], 0, 16)
	z, parent := tree.search(key, &path)
	if z == nil {
		tree.stats.IncreaseRejectCount(opDelete)
		return nil, false
	}

	if /* d2 */ z.left != nil && z.right != nil {
		succ := z.right.minimum()
		succKey, succVal, succHasVal := succ.key, succ.val, succ.hasVal
		if path, ok = tree.delete(succKey); !ok {
			// impossible run to here
			panic( /* debug assertion */ "[bstree] in-order successor lost before removal")
		}
		z.key, z.val, z.hasVal = succKey, succVal, succHasVal
		return path, true
	}

	/* d1 */
	child := z.left
	if child == nil {
		child = z.right
	}
	tree.replaceChild(parent, z, child)
	z.left, z.right = nil, nil
	tree.count--
	tree.stats.RecordNodes(-1)
	return path, true
}

// search descends iteratively and returns the matched node
// with its parent. The visited ancestors are appended to the
// path if it is present.
func (tree *bsTree[K, V]) search(key K, path *[]*bstNode[K, V]) (node, parent *bstNode[K, V]) {
	for aux := tree.root; aux != nil; {
		res := tree.keyCompare(key, aux.key)
		if res == 0 {
			return aux, parent
		}
		if path != nil {
			*path = append(*path, aux)
		}
		parent = aux
		if res < 0 {
			aux = aux.left
		} else {
			aux = aux.right
		}
	}
	return nil, nil
}

// replaceChild redirects the parent's link (or the root) from
// the old subtree to the new one.
func (tree *bsTree[K, V]) replaceChild(parent, old, sub *bstNode[K, V]) {
	switch {
	case parent == nil:
		tree.root = sub
	case parent.left == old:
		parent.left = sub
	case parent.right == old:
		parent.right = sub
	default:
		// impossible run to here
		panic( /* debug assertion */ "[bstree] node is not a child of the recorded parent")
	}
}

// Release unlinks all nodes and resets the tree to empty.
func (tree *bsTree[K, V]) Release() {
	aux := tree.root
	tree.root = nil
	tree.stats.RecordNodes(-tree.count)
	tree.count = 0
	if aux == nil {
		return
	}

	stack := make([]*bstNode[K, V], 0, 32)
	defer func() {
		clear(stack)
	}()
	stack = append(stack, aux)
	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		stack = stack[:size-1]
		if aux.left != nil {
			stack = append(stack, aux.left)
		}
		if aux.right != nil {
			stack = append(stack, aux.right)
		}
		aux.left, aux.right = nil, nil
	}
}

func optionalVal[V any](val []V) (v V, ok bool) {
	if len(val) > 0 {
		return val[0], true
	}
	return v, false
}

func NewBSTree[K infra.OrderedKey, V any](opts ...TreeOption[K]) BSTree[K, V] {
	cfg := &treeConfig[K]{}
	cfg.apply(opts...)
	return newBSTree[K, V](cfg)
}

func newBSTree[K infra.OrderedKey, V any](cfg *treeConfig[K]) *bsTree[K, V] {
	tree := &bsTree[K, V]{
		cmp: cfg.cmp,
	}
	if cfg.isStatsEnabled {
		tree.stats = newTreeStats(cfg.statsName, cfg.meterProvider)
	}
	return tree
}

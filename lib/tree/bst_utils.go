package tree

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/benz9527/xavl/lib/infra"
)

// Tree rule validation utilities.

// OrderViolationValidate checks that the in-order traversal yields
// strictly increasing keys under the tree's comparator. Trees not
// built by this package are compared in natural order.
func OrderViolationValidate[K infra.OrderedKey, V any](tree BSTree[K, V]) error {
	cmp := comparatorOf[K, V](tree)
	var (
		prev    K
		err     error
		started bool
	)
	tree.Foreach(InOrder, func(idx int64, key K, val V) bool {
		if started && cmp(prev, key) >= 0 {
			err = infra.NewErrorStack(fmt.Sprintf("bstree order violation at index %d, key %v after %v", idx, key, prev))
			return false
		}
		prev, started = key, true
		return true
	})
	return err
}

// BalanceViolationValidate checks |height(right) - height(left)| <= 1
// at every node (post-order, heights computed once). All violations
// are combined into the returned error.
func BalanceViolationValidate[K infra.OrderedKey, V any](tree BSTree[K, V]) error {
	root := tree.Root()
	if root == nil {
		return nil
	}

	type frame struct {
		node    BSTNode[K, V]
		visited bool
	}
	var merr error
	heights := make(map[BSTNode[K, V]]int, tree.Len())
	heightOf := func(node BSTNode[K, V]) int {
		if node == nil {
			return 0
		}
		return heights[node]
	}
	stack := make([]frame, 0, 32)
	defer func() {
		clear(stack)
	}()
	stack = append(stack, frame{node: root})
	for size := len(stack); size > 0; size = len(stack) {
		top := stack[size-1]
		stack = stack[:size-1]
		l, r := top.node.Left(), top.node.Right()
		if !top.visited {
			stack = append(stack, frame{node: top.node, visited: true})
			if r != nil {
				stack = append(stack, frame{node: r})
			}
			if l != nil {
				stack = append(stack, frame{node: l})
			}
			continue
		}
		lh, rh := heightOf(l), heightOf(r)
		heights[top.node] = 1 + max(lh, rh)
		if bf := rh - lh; bf < -1 || bf > 1 {
			merr = multierr.Append(merr, infra.NewErrorStack(
				fmt.Sprintf("avltree balance violation at key %v, balance factor %d", top.node.Key(), bf),
			))
		}
	}
	return merr
}

func comparatorOf[K infra.OrderedKey, V any](tree BSTree[K, V]) infra.OrderedKeyComparator[K] {
	switch t := tree.(type) {
	case *bsTree[K, V]:
		return t.cmp
	case *avlTree[K, V]:
		return t.cmp
	default:
	}
	return infra.AscOrderedKeyComparator[K]()
}

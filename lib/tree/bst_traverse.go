package tree

// Foreach visits the nodes in the given order with an explicit
// stack (DFS). The traversal stops once the action returns false.
func (tree *bsTree[K, V]) Foreach(order TraverseOrder, action func(idx int64, key K, val V) bool) {
	if tree.root == nil || action == nil {
		return
	}
	switch order {
	case InOrder:
		tree.inorder(action)
	case PreOrder:
		tree.preorder(action)
	case PostOrder:
		tree.postorder(action)
	default:
	}
}

// Keys collects the keys in the given order.
func (tree *bsTree[K, V]) Keys(order TraverseOrder) []K {
	keys := make([]K, 0, tree.count)
	tree.Foreach(order, func(idx int64, key K, val V) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

func (tree *bsTree[K, V]) inorder(action func(idx int64, key K, val V) bool) {
	stack := make([]*bstNode[K, V], 0, tree.count>>1+1)
	defer func() {
		clear(stack)
	}()

	aux := tree.root
	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}

	idx := int64(0)
	for size := len(stack); size > 0; size = len(stack) {
		if aux = stack[size-1]; !action(idx, aux.key, aux.val) {
			return
		}
		idx++
		stack = stack[:size-1]
		for aux = aux.right; aux != nil; aux = aux.left {
			stack = append(stack, aux)
		}
	}
}

func (tree *bsTree[K, V]) preorder(action func(idx int64, key K, val V) bool) {
	stack := make([]*bstNode[K, V], 0, tree.count>>1+1)
	defer func() {
		clear(stack)
	}()
	stack = append(stack, tree.root)

	idx := int64(0)
	for size := len(stack); size > 0; size = len(stack) {
		aux := stack[size-1]
		stack = stack[:size-1]
		if !action(idx, aux.key, aux.val) {
			return
		}
		idx++
		// Right first, so the left subtree pops first.
		if aux.right != nil {
			stack = append(stack, aux.right)
		}
		if aux.left != nil {
			stack = append(stack, aux.left)
		}
	}
}

func (tree *bsTree[K, V]) postorder(action func(idx int64, key K, val V) bool) {
	stack := make([]*bstNode[K, V], 0, tree.count>>1+1)
	defer func() {
		clear(stack)
	}()

	var prev *bstNode[K, V]
	aux := tree.root
	idx := int64(0)
	for aux != nil || len(stack) > 0 {
		for ; aux != nil; aux = aux.left {
			stack = append(stack, aux)
		}
		top := stack[len(stack)-1]
		if top.right != nil && top.right != prev {
			aux = top.right
			continue
		}
		if !action(idx, top.key, top.val) {
			return
		}
		idx++
		prev = top
		stack = stack[:len(stack)-1]
	}
}

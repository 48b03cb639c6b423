package tree

import (
	"bytes"
	randv2 "math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xavl/lib/xlog"
)

func newTestAVLTree(buf *bytes.Buffer, opts ...TreeOption[int]) AVLTree[int, int] {
	logger := xlog.NewXLogger(
		xlog.WithXLoggerLevel(xlog.LogLevelDebug),
		xlog.WithXLoggerWriteSyncer(zapcore.AddSync(buf)),
	)
	return NewAVLTree[int, int](append(opts, WithTreeLogger[int](logger))...)
}

func rotationCases(buf *bytes.Buffer) []string {
	cases := make([]string, 0, 4)
	for _, line := range strings.Split(buf.String(), "\n") {
		if !strings.Contains(line, "[avltree] rebalanced") {
			continue
		}
		for _, rc := range []RotationCase{LL, LR, RR, RL} {
			if strings.Contains(line, "\"case\":\""+rc.String()+"\"") {
				cases = append(cases, rc.String())
			}
		}
	}
	return cases
}

func requireAVL(t *testing.T, tree AVLTree[int, int]) {
	require.NoError(t, OrderViolationValidate[int, int](tree))
	require.NoError(t, BalanceViolationValidate[int, int](tree))
}

func TestAVLTree_InsertRotations(t *testing.T) {
	testcases := []struct {
		name     string
		keys     []int
		rc       RotationCase
		preorder []int
	}{
		{"LL", []int{20, 10, 30, 5, 1}, LL, []int{20, 5, 1, 10, 30}},
		{"LR", []int{20, 10, 30, 5, 7}, LR, []int{20, 7, 5, 10, 30}},
		{"RR", []int{20, 10, 30, 40, 50}, RR, []int{20, 10, 40, 30, 50}},
		{"RL", []int{20, 10, 30, 40, 35}, RL, []int{20, 10, 35, 30, 40}},
		{"root LL", []int{3, 2, 1}, LL, []int{2, 1, 3}},
		{"root LR", []int{3, 1, 2}, LR, []int{2, 1, 3}},
		{"root RR", []int{1, 2, 3}, RR, []int{2, 1, 3}},
		{"root RL", []int{1, 3, 2}, RL, []int{2, 1, 3}},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tree := newTestAVLTree(buf)
			for _, key := range tc.keys {
				require.True(t, tree.Insert(key))
				requireAVL(t, tree)
			}
			require.Equal(t, tc.preorder, tree.Keys(PreOrder))
			require.Equal(t, []string{tc.rc.String()}, rotationCases(buf))
			require.Equal(t, int64(len(tc.keys)), tree.Len())
		})
	}
}

func TestAVLTree_RootRotations(t *testing.T) {
	testcases := []struct {
		name string
		keys []int
	}{
		{"LL", []int{30, 20, 10}},
		{"RR", []int{10, 20, 30}},
		{"LR", []int{30, 10, 20}},
		{"RL", []int{10, 30, 20}},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			tree := NewAVLTree[int, struct{}]()
			for _, key := range tc.keys {
				require.True(t, tree.Insert(key))
			}
			root := tree.Root()
			require.Equal(t, 20, root.Key())
			require.Equal(t, 10, root.Left().Key())
			require.Equal(t, 30, root.Right().Key())
			require.Equal(t, 2, tree.Height())
		})
	}
}

func TestAVLTree_SingleFixSkipsShallowDelete(t *testing.T) {
	tree := NewAVLTree[int, int](WithAVLSingleFixDelete[int]())
	for _, key := range []int{2, 1, 3, 4} {
		require.True(t, tree.Insert(key))
	}
	require.True(t, tree.Delete(1))
	require.Equal(t, []int{2, 3, 4}, tree.Keys(PreOrder))
	require.Error(t, BalanceViolationValidate[int, int](tree))
}

func TestAVLTree_SequentialInsertIsPerfect(t *testing.T) {
	tree := NewAVLTree[int, int]()
	for i := 1; i <= 7; i++ {
		require.True(t, tree.Insert(i))
	}
	require.Equal(t, 3, tree.Height())
	require.Equal(t, []int{4, 2, 1, 3, 6, 5, 7}, tree.Keys(PreOrder))

	require.True(t, tree.Delete(1))
	require.Equal(t, []int{2, 3, 4, 5, 6, 7}, tree.Keys(InOrder))
	require.Equal(t, []int{4, 2, 3, 6, 5, 7}, tree.Keys(PreOrder))
	requireAVL(t, tree)
}

func TestAVLTree_DeleteRotations(t *testing.T) {
	testcases := []struct {
		name     string
		keys     []int
		del      int
		rc       []string
		preorder []int
	}{
		{"leaf at depth 1 unbalances root", []int{2, 1, 3, 4}, 1, []string{"RR"}, []int{3, 2, 4}},
		{"zig-zag", []int{3, 1, 4, 2}, 4, []string{"LR"}, []int{2, 1, 3}},
		{"mirrored zig-zag", []int{2, 1, 4, 3}, 1, []string{"RL"}, []int{3, 2, 4}},
		{"balanced heavy child", []int{3, 2, 5, 4, 6}, 2, []string{"RR"}, []int{5, 3, 4, 6}},
		{"mirrored balanced heavy child", []int{4, 2, 5, 1, 3}, 5, []string{"LL"}, []int{2, 1, 4, 3}},
		{"two children", []int{2, 1, 3, 4}, 2, nil, []int{3, 1, 4}},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tree := newTestAVLTree(buf)
			for _, key := range tc.keys {
				require.True(t, tree.Insert(key))
			}
			buf.Reset()
			require.True(t, tree.Delete(tc.del))
			require.Nil(t, tree.Search(tc.del))
			requireAVL(t, tree)
			require.Equal(t, tc.preorder, tree.Keys(PreOrder))
			if tc.rc == nil {
				require.Empty(t, rotationCases(buf))
			} else {
				require.Equal(t, tc.rc, rotationCases(buf))
			}
		})
	}
}

// Removing 4 shortens the left subtree twice: LL at 3, then RR at
// the root.
//
//	          5
//	       /     \
//	      3       8
//	     / \    /   \
//	    2   4  7     10
//	   /      /     /  \
//	  1      6     9    11
//	                      \
//	                       12
var cascadeKeys = []int{5, 3, 8, 2, 4, 7, 10, 1, 6, 9, 11, 12}

func TestAVLTree_DeleteCascade(t *testing.T) {
	buf := &bytes.Buffer{}
	tree := newTestAVLTree(buf)
	for _, key := range cascadeKeys {
		require.True(t, tree.Insert(key))
	}
	require.Empty(t, rotationCases(buf))
	require.Equal(t, []int{5, 3, 2, 1, 4, 8, 7, 6, 10, 9, 11, 12}, tree.Keys(PreOrder))

	require.True(t, tree.Delete(4))
	require.Equal(t, []string{"LL", "RR"}, rotationCases(buf))
	require.Equal(t, []int{8, 5, 2, 1, 3, 7, 6, 10, 9, 11, 12}, tree.Keys(PreOrder))
	require.Equal(t, 4, tree.Height())
	requireAVL(t, tree)
}

func TestAVLTree_DeleteCascade_SingleFix(t *testing.T) {
	buf := &bytes.Buffer{}
	tree := newTestAVLTree(buf, WithAVLSingleFixDelete[int]())
	for _, key := range cascadeKeys {
		require.True(t, tree.Insert(key))
	}

	require.True(t, tree.Delete(4))
	require.Equal(t, []string{"LL"}, rotationCases(buf))
	require.Equal(t, []int{5, 2, 1, 3, 8, 7, 6, 10, 9, 11, 12}, tree.Keys(PreOrder))
	require.NoError(t, OrderViolationValidate[int, int](tree))
	require.Error(t, BalanceViolationValidate[int, int](tree))
}

func TestAVLTree_DeleteCaseByBalanceFactor_SingleFix(t *testing.T) {
	buf := &bytes.Buffer{}
	tree := newTestAVLTree(buf, WithAVLSingleFixDelete[int]())
	for _, key := range []int{5, 2, 8, 1, 3, 9, 0} {
		require.True(t, tree.Insert(key))
	}
	require.Empty(t, rotationCases(buf))

	// 9 sorts after 2, yet 2 is left heavy: LL, not LR.
	require.True(t, tree.Delete(9))
	require.Equal(t, []string{"LL"}, rotationCases(buf))
	require.Equal(t, []int{2, 1, 0, 5, 3, 8}, tree.Keys(PreOrder))
	requireAVL(t, tree)
}

func TestAVLTree_Duplicate(t *testing.T) {
	buf := &bytes.Buffer{}
	tree := newTestAVLTree(buf)
	require.True(t, tree.Insert(1))
	require.True(t, tree.Insert(2, 2))
	require.True(t, tree.Insert(3))

	pre := tree.Keys(PreOrder)
	buf.Reset()
	require.False(t, tree.Insert(2, 22))
	require.False(t, tree.Insert(2))
	require.Equal(t, pre, tree.Keys(PreOrder))
	require.Equal(t, int64(3), tree.Len())
	require.Equal(t, 2, tree.Search(2).Val())
	require.Zero(t, buf.Len())

	require.False(t, tree.Delete(42))
	require.Equal(t, pre, tree.Keys(PreOrder))
	require.Zero(t, buf.Len())
}

func TestAVLTree_OriginalScenario(t *testing.T) {
	tree := NewAVLTree[int, int]()
	require.True(t, tree.Insert(1))
	require.True(t, tree.Insert(2, 2))
	require.True(t, tree.Insert(3))
	require.False(t, tree.Insert(2))
	for _, key := range []int{7, 6, 14, 4, 0} {
		require.True(t, tree.Insert(key))
		requireAVL(t, tree)
	}
	require.Equal(t, []int{0, 1, 2, 3, 4, 6, 7, 14}, tree.Keys(InOrder))
	require.Equal(t, []int{6, 2, 1, 0, 3, 4, 7, 14}, tree.Keys(PreOrder))
	require.Equal(t, 4, tree.Height())
	require.Equal(t, 2, tree.Search(2).Val())
	require.True(t, tree.Search(2).HasVal())
}

func TestAVLTree_DescSequential(t *testing.T) {
	tree := NewAVLTree[int, int](WithTreeDesc[int]())
	for i := 1; i <= 7; i++ {
		require.True(t, tree.Insert(i))
		requireAVL(t, tree)
	}
	require.Equal(t, []int{7, 6, 5, 4, 3, 2, 1}, tree.Keys(InOrder))
	require.Equal(t, 3, tree.Height())
}

func avltreeRandomInsertAndDeleteRunCore(t *testing.T, total int, singleFix bool) {
	opts := make([]TreeOption[int], 0, 1)
	if singleFix {
		opts = append(opts, WithAVLSingleFixDelete[int]())
	}
	tree := NewAVLTree[int, int](opts...)
	keys := randv2.Perm(total)
	for i, key := range keys {
		require.True(t, tree.Insert(key, key*10))
		if i%(total/10+1) == 0 {
			requireAVL(t, tree)
		}
	}
	require.Equal(t, int64(total), tree.Len())
	requireAVL(t, tree)

	expected := make([]int, total)
	for i := range expected {
		expected[i] = i
	}
	require.Equal(t, expected, tree.Keys(InOrder))

	randv2.Shuffle(len(keys), func(i, j int) {
		keys[i], keys[j] = keys[j], keys[i]
	})
	removed := keys[:total/2]
	for i, key := range removed {
		require.True(t, tree.Delete(key))
		require.False(t, tree.Delete(key))
		if !singleFix && i%(total/10+1) == 0 {
			requireAVL(t, tree)
		}
	}
	require.NoError(t, OrderViolationValidate[int, int](tree))
	if !singleFix {
		require.NoError(t, BalanceViolationValidate[int, int](tree))
	}

	left := append([]int(nil), keys[total/2:]...)
	sort.Ints(left)
	require.Equal(t, left, tree.Keys(InOrder))
	for _, key := range left {
		node := tree.Search(key)
		require.NotNil(t, node)
		require.Equal(t, key*10, node.Val())
	}
	for _, key := range removed {
		require.Nil(t, tree.Search(key))
	}

	for _, key := range left {
		require.True(t, tree.Delete(key))
	}
	require.Equal(t, int64(0), tree.Len())
	require.Nil(t, tree.Root())
}

func TestAVLTreeRandomInsertAndDelete(t *testing.T) {
	testcases := []struct {
		name      string
		total     int
		singleFix bool
	}{
		{"small", 64, false},
		{"medium", 1000, false},
		{"large", 2000, false},
		{"single fix", 1000, true},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			avltreeRandomInsertAndDeleteRunCore(t, tc.total, tc.singleFix)
		})
	}
}

func TestAVLTree_SequentialHeightBound(t *testing.T) {
	tree := NewAVLTree[int, struct{}]()
	for i := 0; i < 1023; i++ {
		require.True(t, tree.Insert(i))
	}
	require.Equal(t, 10, tree.Height())
	require.NoError(t, BalanceViolationValidate[int, struct{}](tree))

	for i := 1022; i >= 512; i-- {
		require.True(t, tree.Delete(i))
	}
	require.NoError(t, BalanceViolationValidate[int, struct{}](tree))
	require.LessOrEqual(t, tree.Height(), 10)
	tree.Release()
	require.Equal(t, int64(0), tree.Len())
}

func TestAVLTree_RotatePanics(t *testing.T) {
	require.Panics(t, func() {
		rotateLR(&bstNode[int, int]{key: 3, left: &bstNode[int, int]{key: 1}})
	})
	require.Panics(t, func() {
		rotateRL(&bstNode[int, int]{key: 1, right: &bstNode[int, int]{key: 3}})
	})
	tree := NewAVLTree[int, int]().(*avlTree[int, int])
	require.Panics(t, func() {
		tree.rotate(&bstNode[int, int]{key: 1}, -2, 0, opDelete)
	})
	require.Panics(t, func() {
		tree.rotate(&bstNode[int, int]{key: 1}, 2, 0, opDelete)
	})
}

func BenchmarkAVLTree_Random(b *testing.B) {
	tree := NewAVLTree[int, int]()
	keys := randv2.Perm(b.N)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree.Insert(keys[i], i)
	}
	b.ReportAllocs()
}

func BenchmarkAVLTree_Serial(b *testing.B) {
	tree := NewAVLTree[int, int]()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree.Insert(i, i)
		if tree.Len() >= 4096 {
			tree.Release()
		}
	}
	b.ReportAllocs()
}

package main

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xavl/lib/infra"
	"github.com/benz9527/xavl/lib/tree"
	"github.com/benz9527/xavl/lib/xlog"
)

type insertion struct {
	key    int
	val    int
	hasVal bool
}

func runScenario(ctx context.Context, logger xlog.XLogger, provider metric.MeterProvider) error {
	return multierr.Combine(
		runBSTScenario(ctx, logger, provider),
		runAVLScenario(ctx, logger, provider),
	)
}

func insertAll(t tree.BSTree[int, int], items []insertion) []int {
	rejected := make([]int, 0, 2)
	for _, item := range items {
		var ok bool
		if item.hasVal {
			ok = t.Insert(item.key, item.val)
		} else {
			ok = t.Insert(item.key)
		}
		if !ok {
			rejected = append(rejected, item.key)
		}
	}
	return rejected
}

func logOrders(ctx context.Context, logger xlog.XLogger, name string, t tree.BSTree[int, int], orders ...tree.TraverseOrder) {
	for _, order := range orders {
		logger.InfoContext(ctx, "[xavl] "+name+" traversal",
			zap.String("order", order.String()),
			zap.Ints("keys", t.Keys(order)),
			zap.Int("height", t.Height()),
			zap.Int64("len", t.Len()),
		)
	}
}

func runBSTScenario(ctx context.Context, logger xlog.XLogger, provider metric.MeterProvider) error {
	bst := tree.NewBSTree[int, int](
		tree.WithTreeStats[int]("bst", provider),
	)
	defer bst.Release()

	var merr error
	if rejected := insertAll(bst, []insertion{
		{key: 5}, {key: 9, val: 9, hasVal: true}, {key: 3}, {key: 1},
		{key: 6}, {key: 14}, {key: 4}, {key: 0},
	}); len(rejected) > 0 {
		merr = multierr.Append(merr, infra.NewErrorStack(fmt.Sprintf("[xavl] bstree rejected %v", rejected)))
	}
	logOrders(ctx, logger, "bstree", bst, tree.PreOrder, tree.InOrder, tree.PostOrder)

	if node := bst.Search(9); node == nil || !node.HasVal() || node.Val() != 9 {
		merr = multierr.Append(merr, infra.NewErrorStack("[xavl] bstree lost the payload of key 9"))
	}

	for _, key := range []int{5, 14, 3, 0} {
		if !bst.Delete(key) {
			merr = multierr.Append(merr, infra.NewErrorStack(fmt.Sprintf("[xavl] bstree failed to delete %d", key)))
			continue
		}
		logger.DebugContext(ctx, "[xavl] bstree deleted",
			zap.Int("key", key),
			zap.Ints("keys", bst.Keys(tree.InOrder)),
		)
	}

	if bst.Search(4) == nil {
		merr = multierr.Append(merr, infra.NewErrorStack("[xavl] bstree key 4 absent"))
	}
	if bst.Search(3) != nil {
		merr = multierr.Append(merr, infra.NewErrorStack("[xavl] bstree key 3 present"))
	}
	merr = multierr.Append(merr, tree.OrderViolationValidate[int, int](bst))
	return merr
}

func runAVLScenario(ctx context.Context, logger xlog.XLogger, provider metric.MeterProvider) error {
	avl := tree.NewAVLTree[int, int](
		tree.WithTreeLogger[int](logger),
		tree.WithTreeStats[int]("avl", provider),
	)
	defer avl.Release()

	var merr error
	rejected := insertAll(avl, []insertion{
		{key: 1}, {key: 2, val: 2, hasVal: true}, {key: 3}, {key: 2},
		{key: 7}, {key: 6}, {key: 14}, {key: 4}, {key: 0},
	})
	for _, key := range rejected {
		logger.WarnContext(ctx, "[xavl] avltree rejected duplicate", zap.Int("key", key))
	}
	if len(rejected) != 1 || rejected[0] != 2 {
		merr = multierr.Append(merr, infra.NewErrorStack(fmt.Sprintf("[xavl] avltree unexpected rejects %v", rejected)))
	}
	logOrders(ctx, logger, "avltree", avl, tree.InOrder, tree.PreOrder)

	if node := avl.Search(2); node == nil || node.Val() != 2 {
		merr = multierr.Append(merr, infra.NewErrorStack("[xavl] avltree lost the payload of key 2"))
	}
	merr = multierr.Append(merr, tree.OrderViolationValidate[int, int](avl))
	merr = multierr.Append(merr, tree.BalanceViolationValidate[int, int](avl))
	if merr != nil {
		logger.ErrorContext(ctx, merr, "[xavl] avltree invalid")
		return merr
	}
	logger.InfoContext(ctx, "[xavl] avltree validated", zap.Int("height", avl.Height()))
	return nil
}

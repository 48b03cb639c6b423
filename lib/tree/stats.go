package tree

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	TreeStatsName = "xavl/tree"
)

type treeOp string

const (
	opInsert treeOp = "insert"
	opDelete treeOp = "delete"
)

type treeStats struct {
	nodes          metric.Int64UpDownCounter
	rotations      metric.Int64Counter
	rejects        metric.Int64Counter
	rebalanceDepth metric.Int64Histogram
}

func (stats *treeStats) RecordNodes(delta int64) {
	if stats == nil || delta == 0 {
		return
	}
	stats.nodes.Add(context.Background(), delta)
}

func (stats *treeStats) IncreaseRejectCount(op treeOp) {
	if stats == nil {
		return
	}
	as := attribute.NewSet(
		attribute.String("xavl.tree.op", string(op)),
	)
	stats.rejects.Add(context.Background(), 1, metric.WithAttributeSet(as))
}

func (stats *treeStats) RecordRotation(rc RotationCase, depth int) {
	if stats == nil {
		return
	}
	as := attribute.NewSet(
		attribute.String("xavl.tree.rotation.case", rc.String()),
	)
	stats.rotations.Add(context.Background(), 1, metric.WithAttributeSet(as))
	stats.rebalanceDepth.Record(context.Background(), int64(depth), metric.WithAttributeSet(as))
}

func newTreeStats(name string, provider metric.MeterProvider) *treeStats {
	builder := &strings.Builder{}
	builder.WriteString(TreeStatsName)
	builder.WriteString("/")
	if len(strings.TrimSpace(name)) > 0 {
		builder.WriteString(name)
	} else {
		builder.WriteString("default")
	}
	meter := provider.Meter(builder.String())
	return &treeStats{
		nodes: lo.Must[metric.Int64UpDownCounter](meter.Int64UpDownCounter(
			"xavl.tree.nodes",
			metric.WithDescription("The number of nodes held by the tree."),
		)),
		rotations: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xavl.tree.rotations",
			metric.WithDescription("The rotations applied to restore the AVL balance."),
		)),
		rejects: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xavl.tree.rejects",
			metric.WithDescription("Inserts of present keys and deletes of absent keys."),
		)),
		rebalanceDepth: lo.Must[metric.Int64Histogram](meter.Int64Histogram(
			"xavl.tree.rebalance.depth",
			metric.WithDescription("The depth of the rotated node, root is 0."),
		)),
	}
}

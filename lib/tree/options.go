package tree

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/benz9527/xavl/lib/infra"
	"github.com/benz9527/xavl/lib/xlog"
)

type treeConfig[K infra.OrderedKey] struct {
	cmp             infra.OrderedKeyComparator[K]
	logger          xlog.XLogger
	statsName       string
	meterProvider   metric.MeterProvider
	isStatsEnabled  bool
	singleFixDelete bool
}

func (cfg *treeConfig[K]) apply(opts ...TreeOption[K]) {
	for _, o := range opts {
		if o == nil {
			continue
		}
		o(cfg)
	}
	if cfg.cmp == nil {
		cfg.cmp = infra.AscOrderedKeyComparator[K]()
	}
	if cfg.isStatsEnabled && cfg.meterProvider == nil {
		cfg.meterProvider = otel.GetMeterProvider()
	}
}

type TreeOption[K infra.OrderedKey] func(*treeConfig[K])

// WithTreeDesc reverses the natural key order.
func WithTreeDesc[K infra.OrderedKey]() TreeOption[K] {
	return func(cfg *treeConfig[K]) {
		cfg.cmp = infra.DescOrderedKeyComparator[K]()
	}
}

// WithTreeComparator installs a custom key order. The comparator
// must be a strict total order, the tree does not verify it.
func WithTreeComparator[K infra.OrderedKey](cmp infra.OrderedKeyComparator[K]) TreeOption[K] {
	return func(cfg *treeConfig[K]) {
		if cmp != nil {
			cfg.cmp = cmp
		}
	}
}

// WithTreeLogger records every rotation at debug level.
func WithTreeLogger[K infra.OrderedKey](logger xlog.XLogger) TreeOption[K] {
	return func(cfg *treeConfig[K]) {
		cfg.logger = logger
	}
}

// WithTreeStats exports the tree metrics through the given meter
// provider, or the global one if absent.
func WithTreeStats[K infra.OrderedKey](name string, provider ...metric.MeterProvider) TreeOption[K] {
	return func(cfg *treeConfig[K]) {
		cfg.isStatsEnabled = true
		cfg.statsName = name
		if len(provider) > 0 && provider[0] != nil {
			cfg.meterProvider = provider[0]
		}
	}
}

// WithAVLSingleFixDelete makes delete rebalance like insert: no
// walk for paths shorter than 2 and a stop after the first rotation.
// Deleting may then leave ancestors out of balance.
// The rotation case is still picked from the heavy child's balance
// factor, not from the deleted key as insert does.
func WithAVLSingleFixDelete[K infra.OrderedKey]() TreeOption[K] {
	return func(cfg *treeConfig[K]) {
		cfg.singleFixDelete = true
	}
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"musicshare/internal/metrics"
)

// StrategyFunc is one way of extracting metadata for a URL
type StrategyFunc func(ctx context.Context, url string) (*TrackInfo, error)

// Strategy is a named StrategyFunc
type Strategy struct {
	Name string
	Run  StrategyFunc
}

var errStrategyPanic = errors.New("strategy panicked")

// StrategyChain tries strategies in order and returns the first usable result.
// Strategies run sequentially; a failing strategy never stops the chain.
type StrategyChain struct {
	platform   Platform
	strategies []Strategy
	metrics    *metrics.Metrics
}

// NewStrategyChain creates a chain for a platform
func NewStrategyChain(platform Platform, m *metrics.Metrics, strategies ...Strategy) *StrategyChain {
	return &StrategyChain{
		platform:   platform,
		strategies: strategies,
		metrics:    m,
	}
}

// Platform returns the platform this chain resolves
func (c *StrategyChain) Platform() Platform {
	return c.platform
}

// Resolve runs the chain. It returns nil when no strategy produced a usable result.
func (c *StrategyChain) Resolve(ctx context.Context, url string) *TrackInfo {
	for _, strategy := range c.strategies {
		info, err := c.attempt(ctx, strategy, url)
		if err != nil {
			outcome := metrics.OutcomeError
			if errors.Is(err, errStrategyPanic) {
				outcome = metrics.OutcomePanic
			}
			slog.Debug("Strategy failed",
				"platform", c.platform,
				"strategy", strategy.Name,
				"error", err)
			c.metrics.RecordStrategy(string(c.platform), strategy.Name, outcome)
			continue
		}

		if !info.Usable() {
			slog.Debug("Strategy returned no usable metadata",
				"platform", c.platform,
				"strategy", strategy.Name)
			c.metrics.RecordStrategy(string(c.platform), strategy.Name, metrics.OutcomeEmpty)
			continue
		}

		c.metrics.RecordStrategy(string(c.platform), strategy.Name, metrics.OutcomeSuccess)
		return info
	}

	return nil
}

func (c *StrategyChain) attempt(ctx context.Context, strategy Strategy, url string) (info *TrackInfo, err error) {
	defer func() {
		if r := recover(); r != nil {
			info = nil
			err = fmt.Errorf("%w: %v", errStrategyPanic, r)
		}
	}()
	return strategy.Run(ctx, url)
}

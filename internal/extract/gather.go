package extract

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/molisha70-dotcom/Economic/internal/model"
	"github.com/molisha70-dotcom/Economic/internal/resilience"
)

// DefaultTimeout bounds the whole fan-out when Gatherer.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Gatherer runs every provider concurrently and collects the results that
// came back. Provider failures are logged and skipped.
type Gatherer struct {
	Providers []Provider
	// Local runs after the remote providers. When IncludeLocal is false it
	// is only used as the fallback when nothing else succeeded.
	Local        Provider
	IncludeLocal bool
	Timeout      time.Duration
	Retry        resilience.Policy
	Breakers     *resilience.Breakers
}

// Gather returns the present results in provider order, local last. The
// slice is empty only when the local extractor is unset and every provider
// failed.
func (g *Gatherer) Gather(ctx context.Context, text string) []model.ExtractionResult {
	timeout := g.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	slots := make([]*model.ExtractionResult, len(g.Providers))
	var eg errgroup.Group
	for i, p := range g.Providers {
		eg.Go(func() error {
			res, err := g.call(ctx, p, text)
			if err != nil {
				zap.L().Warn("extract: provider failed",
					zap.String("provider", p.Name()),
					zap.Error(err),
				)
				return nil
			}
			slots[i] = &res
			return nil
		})
	}
	_ = eg.Wait()

	out := make([]model.ExtractionResult, 0, len(slots)+1)
	for _, r := range slots {
		if r != nil {
			out = append(out, *r)
		}
	}

	if g.Local != nil && g.IncludeLocal {
		if res, err := g.Local.Extract(ctx, text); err == nil {
			out = append(out, res)
		} else {
			zap.L().Warn("extract: local extractor failed", zap.Error(err))
		}
	}

	if len(out) == 0 && g.Local != nil {
		zap.L().Info("extract: no provider succeeded, using local fallback")
		if res, err := g.Local.Extract(context.WithoutCancel(ctx), text); err == nil {
			out = append(out, res)
		} else {
			zap.L().Warn("extract: local fallback failed", zap.Error(err))
		}
	}

	active := make([]string, 0, len(out))
	for _, r := range out {
		active = append(active, r.Provider)
	}
	zap.L().Debug("extract: gathered", zap.Strings("providers", active))
	return out
}

// call wraps one provider call in its breaker and the retry policy.
func (g *Gatherer) call(ctx context.Context, p Provider, text string) (model.ExtractionResult, error) {
	policy := g.Retry
	if policy.OnRetry == nil {
		policy.OnRetry = resilience.LogRetries(p.Name(), "extract")
	}
	run := func(ctx context.Context) (model.ExtractionResult, error) {
		return p.Extract(ctx, text)
	}
	if g.Breakers != nil {
		b := g.Breakers.Get(p.Name())
		inner := run
		run = func(ctx context.Context) (model.ExtractionResult, error) {
			return resilience.Call(ctx, b, inner)
		}
	}
	return resilience.Retry(ctx, policy, run)
}

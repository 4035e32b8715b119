package dataservice

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/theirongolddev/cashflow90/internal/model"
)

// Result is resolved data tagged with the tier that produced it.
type Result[T any] struct {
	Data       T                `json:"data"`
	Provenance model.Provenance `json:"provenance"`
}

// Synthetic reports whether the data came from the demo generator.
func (r Result[T]) Synthetic() bool {
	return r.Provenance == model.ProvenanceSynthetic
}

// tier is one step of a resolution chain. It reports ok=false when it has
// nothing to offer so the next tier runs.
type tier[T any] struct {
	name       string
	provenance model.Provenance
	resolve    func(ctx context.Context) (T, bool, error)
}

// resolveTiers returns the first tier with data. Tier errors are logged and
// treated as empty. The chain must end in a tier that always has data.
func resolveTiers[T any](ctx context.Context, log *logrus.Entry, tiers ...tier[T]) Result[T] {
	for _, t := range tiers {
		v, ok, err := t.resolve(ctx)
		if err != nil {
			log.WithError(err).WithField("tier", t.name).Warn("tier failed, falling through")
			continue
		}
		if !ok {
			log.WithField("tier", t.name).Info("tier empty, falling through")
			continue
		}
		log.WithFields(logrus.Fields{"tier": t.name, "provenance": t.provenance}).Debug("resolved")
		return Result[T]{Data: v, Provenance: t.provenance}
	}
	panic(fmt.Sprintf("dataservice: no tier produced data (%v)", log.Data["op"]))
}

func nonEmpty[T any](rows []T, err error) ([]T, bool, error) {
	if err != nil {
		return nil, false, err
	}
	return rows, len(rows) > 0, nil
}

func always[T any](name string, fn func() T) tier[T] {
	return tier[T]{
		name:       name,
		provenance: model.ProvenanceSynthetic,
		resolve: func(context.Context) (T, bool, error) {
			return fn(), true, nil
		},
	}
}

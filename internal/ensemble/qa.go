// Package ensemble runs multiple models over the same input and fuses their
// outputs into a single trusted result.
package ensemble

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lexsight/clauselens/internal/model"
	"github.com/lexsight/clauselens/internal/registry"
)

// ErrModelUnavailable is returned when every model in an ensemble failed.
// Individual failures are logged and excluded from fusion; only total
// exhaustion surfaces to the caller.
var ErrModelUnavailable = errors.New("ensemble: no model produced a result")

// QAEnsemble answers a question by dispatching it to every configured QA
// model and selecting the answer with the highest score x weight product.
// The selected text is always exactly one model's raw output.
type QAEnsemble struct {
	reg *registry.Registry
}

// NewQA creates a QAEnsemble over the registry's QA models.
func NewQA(reg *registry.Registry) *QAEnsemble {
	return &QAEnsemble{reg: reg}
}

// Answer invokes each model concurrently, fuses the surviving answers by
// confidence-weighted selection, and returns the winner plus every
// contribution for diagnostics. Returns ErrModelUnavailable only when no
// model produced an answer.
func (e *QAEnsemble) Answer(ctx context.Context, question, contextText string) (*model.EnsembleResult, error) {
	models := e.reg.QAModels()
	if len(models) == 0 {
		return nil, ErrModelUnavailable
	}

	var (
		mu      sync.Mutex
		answers []model.ModelAnswer
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, wm := range models {
		g.Go(func() error {
			text, score, err := wm.Model.Infer(gctx, question, contextText)
			if err != nil {
				// One model down is recoverable; keep the ensemble alive.
				zap.L().Warn("ensemble: qa model failed",
					zap.String("model", wm.Model.Name()),
					zap.Error(err),
				)
				return nil
			}
			mu.Lock()
			answers = append(answers, model.ModelAnswer{
				Model:  wm.Model.Name(),
				Text:   text,
				Score:  score,
				Weight: wm.Weight,
			})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(answers) == 0 {
		return nil, ErrModelUnavailable
	}

	return &model.EnsembleResult{
		Selected:      fuse(answers),
		Contributions: answers,
	}, nil
}

// fuse picks the answer maximizing score x weight. Gathering order does not
// matter; ties keep the first maximal answer encountered.
func fuse(answers []model.ModelAnswer) model.ModelAnswer {
	best := answers[0]
	for _, a := range answers[1:] {
		if a.Weighted() > best.Weighted() {
			best = a
		}
	}
	return best
}

package service

import (
	"context"

	"github.com/iwvelando/rehabdesk/internal/brrrr"
	"github.com/iwvelando/rehabdesk/internal/flip"
	"github.com/iwvelando/rehabdesk/internal/model"
	"go.uber.org/zap"
)

// BrrrrAnalyzer returns the project's BRRRR analyzer state.
func (s *ProjectService) BrrrrAnalyzer(ctx context.Context, id string) (brrrr.Analyzer, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return brrrr.Analyzer{}, err
	}
	return p.BrrrrAnalyzer, nil
}

// UpdateBrrrrAnalyzer merges a client save into the stored analyzer,
// recomputing the projection when the save is finished.
func (s *ProjectService) UpdateBrrrrAnalyzer(ctx context.Context, id string, upd brrrr.Update) (brrrr.Analyzer, error) {
	const op = "service.UpdateBrrrrAnalyzer"
	p, err := s.mutate(ctx, id, op, func(p *model.Project) error {
		next, err := s.brrrr.Apply(p.BrrrrAnalyzer, upd, s.now())
		if err != nil {
			return err
		}
		p.BrrrrAnalyzer = next
		return nil
	})
	if err != nil {
		return brrrr.Analyzer{}, err
	}
	s.logger.Debug("saved brrrr analyzer",
		zap.String("op", op),
		zap.String("project_id", id),
		zap.Bool("finished", p.BrrrrAnalyzer.Finished),
	)
	return p.BrrrrAnalyzer, nil
}

// FlipAnalyzer returns the project's flip analyzer state.
func (s *ProjectService) FlipAnalyzer(ctx context.Context, id string) (flip.Analyzer, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return flip.Analyzer{}, err
	}
	return p.FlipAnalyzer, nil
}

// UpdateFlipAnalyzer merges the JSON object body into the stored flip
// analyzer.
func (s *ProjectService) UpdateFlipAnalyzer(ctx context.Context, id string, body []byte) (flip.Analyzer, error) {
	const op = "service.UpdateFlipAnalyzer"
	p, err := s.mutate(ctx, id, op, func(p *model.Project) error {
		next, err := s.flip.Apply(p.FlipAnalyzer, body, s.now())
		if err != nil {
			return err
		}
		p.FlipAnalyzer = next
		return nil
	})
	if err != nil {
		return flip.Analyzer{}, err
	}
	s.logger.Debug("saved flip analyzer", zap.String("op", op), zap.String("project_id", id))
	return p.FlipAnalyzer, nil
}

// EvaluateFlip computes the profitability of the stored flip figures.
func (s *ProjectService) EvaluateFlip(ctx context.Context, id string) (flip.Evaluation, error) {
	a, err := s.FlipAnalyzer(ctx, id)
	if err != nil {
		return flip.Evaluation{}, err
	}
	return a.Evaluate(), nil
}

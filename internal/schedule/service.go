package schedule

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"
)

// Service orchestrates one scheduling request: load snapshots and
// commitments, try the external suggester when configured, fall back to
// the simulated scheduler, and normalize whatever came out.
type Service struct {
	Tasks       TaskLoader
	Commitments CommitmentLoader
	AI          Suggester // nil when no API key is configured
}

func NewService(tasks TaskLoader, commitments CommitmentLoader, ai Suggester) *Service {
	return &Service{
		Tasks:       tasks,
		Commitments: commitments,
		AI:          ai,
	}
}

type Request struct {
	TaskIDs []int
	Start   time.Time
	End     time.Time
	Options Options
}

// SuggestSchedule runs one scheduling request to completion. Input
// validation errors come back as ErrNoTasks / ErrInvalidDateRange /
// ErrNoMatchingTasks before anything else runs; after that the caller
// always gets a best-effort result, with Mode recording which path
// produced it.
func (s *Service) SuggestSchedule(ctx context.Context, userID int, req Request) (*SuggestionResult, error) {
	if len(req.TaskIDs) == 0 {
		return nil, ErrNoTasks
	}
	if req.Start.IsZero() || req.End.IsZero() || req.End.Before(req.Start) {
		return nil, ErrInvalidDateRange
	}

	// the two loaders are independent
	var snapshots []TaskSnapshot
	var commitments []Commitment

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snapshots, err = s.Tasks.LoadSnapshots(gctx, userID, req.TaskIDs)
		return err
	})
	g.Go(func() error {
		var err error
		commitments, err = s.Commitments.LoadCommitments(gctx, userID, req.Start, endOfDay(req.End))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(snapshots) == 0 {
		return nil, ErrNoMatchingTasks
	}

	mode := ModeSimulation
	var result *SuggestionResult

	if s.AI != nil {
		prompt := BuildPrompt(snapshots, req.Start, req.End, req.Options, commitments)
		res, err := s.AI.Suggest(ctx, prompt)
		if err == nil {
			result = res
			mode = ModeGemini
		} else {
			log.Printf("[WARN] suggestion service unavailable, simulating: %v", err)
			mode = ModeSimulationFallback
		}
	}

	if result == nil {
		result = SimulateSchedule(snapshots, req.Start, req.End, req.Options, commitments)
	}

	return Normalize(result, snapshots, req.Start, req.End, mode), nil
}

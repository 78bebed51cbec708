package discover

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/PeterBarbas/leaply-sub001/internal/domain"
	"github.com/PeterBarbas/leaply-sub001/internal/usecase/match"
)

const (
	TypeQuestion = "question"
	TypeResult   = "result"

	StatusSupported   = domain.StatusSupported
	StatusUnsupported = domain.StatusUnsupported
	StatusNotFound    = "not_found"
)

type ActionDecider interface {
	NextAction(ctx context.Context, transcript domain.Transcript) (domain.Action, error)
}

type Result struct {
	Type     string `json:"type"`
	Question string `json:"question,omitempty"`
	Status   string `json:"status,omitempty"`
	Role     string `json:"role,omitempty"`
	Slug     string `json:"slug,omitempty"`
	Message  string `json:"message,omitempty"`
}

func (r Result) Done() bool {
	return r.Type == TypeResult
}

type Service struct {
	decider ActionDecider
	catalog domain.CatalogSource
	matcher *match.Matcher
	logger  *zap.Logger
}

func NewService(decider ActionDecider, catalog domain.CatalogSource, matcher *match.Matcher, logger *zap.Logger) *Service {
	return &Service{
		decider: decider,
		catalog: catalog,
		matcher: matcher,
		logger:  logger,
	}
}

// Next runs one turn of the discovery flow for the given transcript.
func (s *Service) Next(ctx context.Context, transcript domain.Transcript) (Result, error) {
	action, err := s.decider.NextAction(ctx, transcript)
	if err != nil {
		return Result{}, err
	}

	switch a := action.(type) {
	case domain.Ask:
		return Result{Type: TypeQuestion, Question: a.Question}, nil
	case domain.Recommend:
		if !a.Supported() {
			s.logger.Info("discovery finished", zap.String("status", StatusUnsupported), zap.Int("turns", len(transcript)))
			return Result{Type: TypeResult, Status: StatusUnsupported, Message: a.MessageIfUnsupported}, nil
		}
		return s.resolve(ctx, a, len(transcript))
	default:
		return Result{}, fmt.Errorf("%w: unexpected action %T", ErrMalformedGenerationOutput, action)
	}
}

func (s *Service) resolve(ctx context.Context, rec domain.Recommend, turns int) (Result, error) {
	catalog, err := s.catalog.ListSimulations(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list simulations: %w", err)
	}

	entry, ok := s.matcher.Match(rec.RoleTitle, catalog)
	if !ok {
		s.logger.Info("discovery finished",
			zap.String("status", StatusNotFound),
			zap.String("role", rec.RoleTitle),
			zap.Int("turns", turns))
		return Result{
			Type:    TypeResult,
			Status:  StatusNotFound,
			Role:    rec.RoleTitle,
			Message: notFoundMessage(rec),
		}, nil
	}

	s.logger.Info("discovery finished",
		zap.String("status", StatusSupported),
		zap.String("role", rec.RoleTitle),
		zap.String("slug", entry.Slug),
		zap.Int("turns", turns))
	return Result{
		Type:    TypeResult,
		Status:  StatusSupported,
		Role:    rec.RoleTitle,
		Slug:    entry.Slug,
		Message: supportedMessage(rec, entry),
	}, nil
}

func supportedMessage(rec domain.Recommend, entry domain.CatalogEntry) string {
	msg := fmt.Sprintf("We think %s could be a great fit for you. Try the %q simulation to see what the work is really like.", rec.RoleTitle, entry.Title)
	return joinSentences(msg, rec.Rationale)
}

func notFoundMessage(rec domain.Recommend) string {
	msg := fmt.Sprintf("We think %s could be a great fit for you, but we don't have a simulation for it yet. Check back soon!", rec.RoleTitle)
	return joinSentences(msg, rec.Rationale)
}

func joinSentences(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

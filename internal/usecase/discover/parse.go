package discover

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PeterBarbas/leaply-sub001/internal/domain"
)

const (
	actionAsk       = "ask"
	actionRecommend = "recommend"
)

type wireAction struct {
	Action               string   `json:"action"`
	Question             string   `json:"question"`
	Status               string   `json:"status"`
	RoleTitle            string   `json:"role_title"`
	Rationale            string   `json:"rationale"`
	Confidence           *float64 `json:"confidence"`
	MessageIfUnsupported string   `json:"message_if_unsupported"`
}

// parseAction decodes a model reply into Ask or Recommend. Every failure
// wraps ErrMalformedGenerationOutput.
func parseAction(raw string) (domain.Action, error) {
	body := stripFences(raw)
	if body == "" {
		return nil, fmt.Errorf("%w: empty reply", ErrMalformedGenerationOutput)
	}

	var w wireAction
	if err := json.Unmarshal([]byte(body), &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedGenerationOutput, err)
	}

	kind := strings.ToLower(strings.TrimSpace(w.Action))
	if kind == "" {
		switch {
		case w.Status != "":
			kind = actionRecommend
		case w.Question != "":
			kind = actionAsk
		}
	}

	switch kind {
	case actionAsk:
		q := strings.TrimSpace(w.Question)
		if q == "" {
			return nil, fmt.Errorf("%w: ask without question", ErrMalformedGenerationOutput)
		}
		return domain.Ask{Question: q}, nil
	case actionRecommend:
		return parseRecommend(w)
	default:
		return nil, fmt.Errorf("%w: reply matches neither ask nor recommend", ErrMalformedGenerationOutput)
	}
}

func parseRecommend(w wireAction) (domain.Action, error) {
	rec := domain.Recommend{
		Status:               strings.ToLower(strings.TrimSpace(w.Status)),
		RoleTitle:            strings.TrimSpace(w.RoleTitle),
		Rationale:            strings.TrimSpace(w.Rationale),
		Confidence:           w.Confidence,
		MessageIfUnsupported: strings.TrimSpace(w.MessageIfUnsupported),
	}

	if c := rec.Confidence; c != nil && (*c < 0 || *c > 1) {
		return nil, fmt.Errorf("%w: confidence %v outside [0,1]", ErrMalformedGenerationOutput, *c)
	}

	switch rec.Status {
	case domain.StatusSupported:
		if rec.RoleTitle == "" {
			return nil, fmt.Errorf("%w: supported recommendation without role_title", ErrMalformedGenerationOutput)
		}
	case domain.StatusUnsupported:
		if rec.MessageIfUnsupported == "" {
			rec.MessageIfUnsupported = rec.Rationale
		}
		if rec.MessageIfUnsupported == "" {
			return nil, fmt.Errorf("%w: unsupported recommendation without guidance", ErrMalformedGenerationOutput)
		}
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrMalformedGenerationOutput, rec.Status)
	}
	return rec, nil
}

// stripFences drops a surrounding markdown code fence, which some models add
// even in JSON mode.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

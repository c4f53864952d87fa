package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zen-systems/hybridgate/pkg/backend"
)

// refineTemplate instructs the small model to tighten a prompt before the
// expensive backend answers it.
const refineTemplate = `Rewrite the following request so a language model can answer it well.
Preserve the intent, remove redundancy, clarify any ambiguity, and keep the
request focused. Return only the rewritten request, nothing else.

Request:
%s`

// Distiller runs the two-stage refine-then-answer pipeline: the small
// backend rewrites the prompt, then the cloud (or large) backend answers
// the rewritten version.
type Distiller struct {
	orch *Orchestrator
}

// NewDistiller creates a distiller over an orchestrator.
func NewDistiller(orch *Orchestrator) *Distiller {
	return &Distiller{orch: orch}
}

// Distill refines the prompt on the small backend, then answers it on the
// strongest available backend. Refinement failure is never fatal: the
// original prompt is substituted and DistillationUsed reports false.
func (d *Distiller) Distill(ctx context.Context, prompt string) (*DistillationResult, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	refined, used, err := d.refine(ctx, prompt)
	if err != nil {
		return nil, err
	}

	// Stage 2: answer on cloud when available, otherwise large.
	response, kind, err := d.orch.runPreferred(ctx, refined, []backend.Kind{backend.KindCloud, backend.KindLarge})
	if err != nil {
		return nil, err
	}

	return &DistillationResult{
		OriginalPrompt:   prompt,
		RefinedPrompt:    refined,
		FinalResponse:    response,
		BackendUsed:      kind,
		DistillationUsed: used,
	}, nil
}

// refine runs stage 1 on the small backend. Any failure, including an
// empty rewrite, falls back to the original prompt; only caller
// cancellation propagates as an error.
func (d *Distiller) refine(ctx context.Context, prompt string) (string, bool, error) {
	refinePrompt := fmt.Sprintf(refineTemplate, prompt)

	text, _, err := d.orch.runPreferred(ctx, refinePrompt, []backend.Kind{backend.KindSmall})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", false, err
		}
		return prompt, false, nil
	}

	refined := strings.TrimSpace(text)
	if refined == "" {
		return prompt, false, nil
	}
	return refined, true, nil
}

package classify

import (
	"context"
	"encoding/json"
	"fmt"

	"leadminer-engine/internal/domain"
)

// Classify submits one batch and parses the structured verdicts. Any failure
// (transport, non-2xx, malformed JSON) fails the whole batch: the caller gets
// an error and treats the batch as having zero judgments. There are no
// retries — the pipeline re-polls on a schedule and near-duplicates are
// handled by dedup on the next run.
//
// Returned judgments are untrusted and unordered; callers must validate
// original_index before mapping one back onto the batch.
func Classify(ctx context.Context, c Completer, batch []domain.RawItem, task TaskSpec) ([]domain.Judgment, error) {
	if len(batch) == 0 {
		return nil, nil
	}

	content, err := c.Complete(ctx, task.System, task.Prompt(batch))
	if err != nil {
		return nil, fmt.Errorf("%s batch: %w", task.Name, err)
	}

	var result struct {
		Leads []domain.Judgment `json:"leads"`
	}
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("%s batch: malformed judgment payload: %w", task.Name, err)
	}
	return result.Leads, nil
}

package services

import (
	"context"
	"fmt"

	"lexfirm_api_go/models"
	"lexfirm_api_go/repositories"
)

// maxCaseNumberAttempts bounds the retries after a case number collision.
const maxCaseNumberAttempts = 10

// NextCaseNumber reserves the next LEX-<year>-<seq> number. It must run in
// the same transaction that inserts the case so a rollback releases the
// number again. The year counter starts from the highest number already
// stored for that year, or at zero.
func NextCaseNumber(ctx context.Context, tx *repositories.Repositories, year int) (string, error) {
	exists, err := tx.CaseSequences.Exists(ctx, year)
	if err != nil {
		return "", fmt.Errorf("failed to read case sequence: %w", err)
	}

	if !exists {
		highest, err := tx.Cases.MaxSequence(ctx, year)
		if err != nil {
			return "", fmt.Errorf("failed to scan case numbers: %w", err)
		}
		if err := tx.CaseSequences.Ensure(ctx, year, highest); err != nil {
			return "", fmt.Errorf("failed to seed case sequence: %w", err)
		}
	}

	seq, err := tx.CaseSequences.Next(ctx, year)
	if err != nil {
		return "", fmt.Errorf("failed to advance case sequence: %w", err)
	}
	return models.FormatCaseNumber(year, seq), nil
}

// resyncCaseSequence lifts the counter past numbers inserted without it.
func resyncCaseSequence(ctx context.Context, repos *repositories.Repositories, year int) error {
	highest, err := repos.Cases.MaxSequence(ctx, year)
	if err != nil {
		return err
	}
	if err := repos.CaseSequences.Ensure(ctx, year, highest); err != nil {
		return err
	}
	return repos.CaseSequences.Raise(ctx, year, highest)
}

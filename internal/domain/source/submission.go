package source

import (
	"context"
	"fmt"

	"github.com/questboard/backend/internal/entity"
	"github.com/questboard/backend/internal/repository"
)

// submissionSource drains the queue of user-submitted listings. Unlike the
// scraped sources it reads local state, so unavailability only means the
// store itself is down.
type submissionSource struct {
	submissionRepo repository.SubmissionRepository
}

func NewSubmissionSource(submissionRepo repository.SubmissionRepository) *submissionSource {
	return &submissionSource{submissionRepo: submissionRepo}
}

func (s *submissionSource) Name() entity.SourceType {
	return entity.SourceUser
}

func (s *submissionSource) Fetch(ctx context.Context) ([]RawListing, int, error) {
	submissions, err := s.submissionRepo.GetUnconsumed(ctx, 0)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	listings := []RawListing{}
	skipped := 0
	malformed := []string{}
	for _, submission := range submissions {
		if submission.Title == "" {
			skipped++
			malformed = append(malformed, submission.ID)
			continue
		}

		listings = append(listings, RawListing{
			Source:      entity.SourceUser,
			ExternalID:  submission.ID,
			Title:       submission.Title,
			Description: submission.Description,
			Author:      submission.SubmittedBy,
			RewardText:  submission.RewardText,
			Location:    submission.Location,
			Score:       -1,
			PostedAt:    submission.CreatedAt,
		})
	}

	// Malformed rows can never produce a quest, so they are consumed right
	// away. Valid rows stay in the queue until Ack.
	if err := s.submissionRepo.MarkConsumed(ctx, malformed); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return listings, skipped, nil
}

// Ack consumes a submission once its quest has been stored, or once it was
// dropped for a reason a retry cannot change. Submissions of a cycle that
// failed before that point are served again on the next fetch.
func (s *submissionSource) Ack(ctx context.Context, externalID string) error {
	return s.submissionRepo.MarkConsumed(ctx, []string{externalID})
}

package source

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/questboard/backend/internal/entity"
	"github.com/questboard/backend/internal/repository"
	"github.com/questboard/backend/internal/testutil"
)

func Test_submissionSource_Fetch(t *testing.T) {
	ctx := testutil.MockContext()
	submissionRepo := repository.NewSubmissionRepository()

	err := submissionRepo.Create(ctx, &entity.Submission{
		Base:        entity.Base{ID: "sub1"},
		Title:       "Install shelves",
		Description: "Three wall shelves",
		RewardText:  "$60",
		Location:    "Henderson",
		SubmittedBy: "user1",
	})
	require.NoError(t, err)

	err = submissionRepo.Create(ctx, &entity.Submission{
		Base: entity.Base{ID: "sub2"},
	})
	require.NoError(t, err)

	src := NewSubmissionSource(submissionRepo)
	require.Equal(t, entity.SourceUser, src.Name())

	listings, skipped, err := src.Fetch(ctx)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	require.Equal(t, 1, skipped)
	require.Equal(t, "sub1", listings[0].ExternalID)
	require.Equal(t, "user1", listings[0].Author)

	// The titleless row is consumed at fetch time; the valid one is served
	// again until it is acknowledged.
	listings, skipped, err = src.Fetch(ctx)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	require.Equal(t, "sub1", listings[0].ExternalID)
	require.Zero(t, skipped)

	require.NoError(t, src.Ack(ctx, "sub1"))

	listings, skipped, err = src.Fetch(ctx)
	require.NoError(t, err)
	require.Empty(t, listings)
	require.Zero(t, skipped)
}

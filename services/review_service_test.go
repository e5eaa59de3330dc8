package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intellibiz-backend/apperrors"
	"intellibiz-backend/models"
	"intellibiz-backend/policy"
)

func TestFlagIsOrthogonalToStatus(t *testing.T) {
	f := newFixture(t)
	b, _ := f.approvedBusiness(t)

	review, err := f.svc.Reviews.Create(f.ctx, f.customer, ReviewInput{BusinessID: b.ID, Rating: 5, Comment: "Great fade"})
	require.NoError(t, err)
	assert.Equal(t, models.ReviewPending, review.Status)
	assert.False(t, review.IsFlagged)

	flagged, err := f.svc.Reviews.Flag(f.ctx, f.admin, review.ID, "spam")
	require.NoError(t, err)
	assert.True(t, flagged.IsFlagged)
	assert.Equal(t, "spam", flagged.FlagReason)
	assert.Equal(t, models.ReviewPending, flagged.Status)

	approved, err := f.svc.Reviews.Approve(f.ctx, f.admin, review.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReviewApproved, approved.Status)
	assert.True(t, approved.IsFlagged)
	assert.Equal(t, models.DisplayFlagged, approved.Display)

	unflagged, err := f.svc.Reviews.Unflag(f.ctx, f.admin, review.ID)
	require.NoError(t, err)
	assert.False(t, unflagged.IsFlagged)
	assert.Empty(t, unflagged.FlagReason)
	assert.Equal(t, models.ReviewApproved, unflagged.Status, "unflag keeps the status")
	assert.Equal(t, models.DisplayPublished, unflagged.Display)
}

func TestReviewModerationRules(t *testing.T) {
	f := newFixture(t)
	b, _ := f.approvedBusiness(t)
	review, err := f.svc.Reviews.Create(f.ctx, f.customer, ReviewInput{BusinessID: b.ID, Rating: 2})
	require.NoError(t, err)

	_, err = f.svc.Reviews.Flag(f.ctx, f.admin, review.ID, "  ")
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeValidation))

	_, err = f.svc.Reviews.Approve(f.ctx, f.customer, review.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeForbidden))

	_, err = f.svc.Reviews.Reject(f.ctx, f.admin, review.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Your review has been rejected."}, f.notifier.sent[f.customer.UserID])
	_, err = f.svc.Reviews.Reject(f.ctx, f.admin, review.ID)
	assert.NoError(t, err, "repeat is idempotent")
	assert.Len(t, f.notifier.sent[f.customer.UserID], 1, "no notification for a repeat")
	_, err = f.svc.Reviews.Approve(f.ctx, f.admin, review.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeInvalidTransition))
}

func TestReviewRatingBounds(t *testing.T) {
	f := newFixture(t)
	b, _ := f.approvedBusiness(t)

	for _, rating := range []int{0, 6, -1} {
		_, err := f.svc.Reviews.Create(f.ctx, f.customer, ReviewInput{BusinessID: b.ID, Rating: rating})
		assert.True(t, apperrors.Is(err, apperrors.ErrorTypeValidation), rating)
	}
	_, err := f.svc.Reviews.Create(f.ctx, f.owner, ReviewInput{BusinessID: b.ID, Rating: 3})
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeForbidden))
}

func TestPublicReviewsAndAverage(t *testing.T) {
	f := newFixture(t)
	b, _ := f.approvedBusiness(t)

	var ids []ReviewView
	for _, rating := range []int{5, 4, 1} {
		r, err := f.svc.Reviews.Create(f.ctx, f.customer, ReviewInput{BusinessID: b.ID, Rating: rating})
		require.NoError(t, err)
		ids = append(ids, *r)
	}
	for _, r := range ids {
		_, err := f.svc.Reviews.Approve(f.ctx, f.admin, r.ID)
		require.NoError(t, err)
	}
	_, err := f.svc.Reviews.Flag(f.ctx, f.admin, ids[2].ID, "abusive")
	require.NoError(t, err)

	page, err := f.svc.Reviews.ListForBusiness(f.ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Count)
	assert.InDelta(t, 4.5, page.AverageRating, 0.001)

	_, err = f.svc.Reviews.Get(f.ctx, policy.Actor{}, ids[2].ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeNotFound), "flagged reviews are hidden")

	flagged := true
	queue, err := f.svc.Reviews.List(f.ctx, f.admin, ReviewQuery{Flagged: &flagged})
	require.NoError(t, err)
	assert.Len(t, queue, 1)

	own, err := f.svc.Reviews.List(f.ctx, f.customer, ReviewQuery{})
	require.NoError(t, err)
	assert.Len(t, own, 3)
}

func TestDeleteReview(t *testing.T) {
	f := newFixture(t)
	b, _ := f.approvedBusiness(t)
	review, err := f.svc.Reviews.Create(f.ctx, f.customer, ReviewInput{BusinessID: b.ID, Rating: 4})
	require.NoError(t, err)

	err = f.svc.Reviews.Delete(f.ctx, f.owner, review.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeForbidden))
	require.NoError(t, f.svc.Reviews.Delete(f.ctx, f.customer, review.ID))
	assert.True(t, apperrors.Is(f.svc.Reviews.Delete(f.ctx, f.admin, review.ID), apperrors.ErrorTypeNotFound))
}

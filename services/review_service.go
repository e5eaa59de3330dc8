package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"intellibiz-backend/apperrors"
	"intellibiz-backend/metrics"
	"intellibiz-backend/models"
	"intellibiz-backend/policy"
	"intellibiz-backend/repository"
)

type ReviewInput struct {
	BusinessID uuid.UUID `json:"businessId"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
}

type ReviewQuery struct {
	BusinessID uuid.UUID
	Status     models.ReviewStatus
	Flagged    *bool
}

// ReviewView adds the badge a client should render for the review.
type ReviewView struct {
	models.Review
	Display string `json:"displayStatus"`
}

func viewOf(r models.Review) ReviewView {
	return ReviewView{Review: r, Display: r.DisplayStatus()}
}

func viewsOf(reviews []models.Review) []ReviewView {
	out := make([]ReviewView, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, viewOf(r))
	}
	return out
}

// BusinessReviews is the public review page of a business.
type BusinessReviews struct {
	Reviews       []ReviewView `json:"reviews"`
	AverageRating float64      `json:"averageRating"`
	Count         int          `json:"count"`
}

type ReviewService struct {
	store    *repository.Store
	notifier Notifier
	now      func() time.Time
}

func (s *ReviewService) Create(ctx context.Context, actor policy.Actor, in ReviewInput) (*ReviewView, error) {
	if err := requireCapability(actor, policy.ReviewWrite); err != nil {
		return nil, err
	}
	if in.Rating < models.MinRating || in.Rating > models.MaxRating {
		return nil, apperrors.NewValidationError("Rating must be between 1 and 5")
	}
	business, err := s.store.Businesses.FindByID(ctx, in.BusinessID)
	if err != nil {
		return nil, err
	}
	if !business.Bookable() {
		return nil, apperrors.NewValidationError("Business is not open for reviews")
	}

	now := s.now()
	review := &models.Review{
		ID:         uuid.New(),
		UserID:     actor.UserID,
		BusinessID: business.ID,
		Rating:     in.Rating,
		Comment:    strings.TrimSpace(in.Comment),
		Status:     models.ReviewPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.Reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	v := viewOf(*review)
	return &v, nil
}

// ListForBusiness returns published, unflagged reviews and their average.
func (s *ReviewService) ListForBusiness(ctx context.Context, businessID uuid.UUID) (*BusinessReviews, error) {
	if _, err := s.store.Businesses.FindByID(ctx, businessID); err != nil {
		return nil, err
	}
	unflagged := false
	reviews, err := s.store.Reviews.List(ctx, repository.ReviewFilter{
		BusinessID: businessID,
		Status:     models.ReviewApproved,
		Flagged:    &unflagged,
	})
	if err != nil {
		return nil, err
	}

	out := &BusinessReviews{Reviews: viewsOf(reviews), Count: len(reviews)}
	if len(reviews) > 0 {
		total := 0
		for _, r := range reviews {
			total += r.Rating
		}
		out.AverageRating = math.Round(float64(total)/float64(len(reviews))*10) / 10
	}
	return out, nil
}

// List gives admins the moderation queue and everyone else their own reviews.
func (s *ReviewService) List(ctx context.Context, actor policy.Actor, q ReviewQuery) ([]ReviewView, error) {
	if actor.Anonymous() {
		return nil, apperrors.NewUnauthorizedError("Authentication required")
	}
	if q.Status != "" && !q.Status.Valid() {
		return nil, apperrors.NewValidationError("Invalid status filter")
	}
	filter := repository.ReviewFilter{BusinessID: q.BusinessID, Status: q.Status, Flagged: q.Flagged}
	if !actor.Can(policy.ReviewModerate) {
		filter.UserID = actor.UserID
	}
	reviews, err := s.store.Reviews.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return viewsOf(reviews), nil
}

func (s *ReviewService) Get(ctx context.Context, actor policy.Actor, id uuid.UUID) (*ReviewView, error) {
	review, err := s.store.Reviews.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	public := review.Status == models.ReviewApproved && !review.IsFlagged
	if !public && !actor.IsAdmin() && actor.UserID != review.UserID {
		return nil, apperrors.NewNotFoundError("Review not found")
	}
	v := viewOf(*review)
	return &v, nil
}

func (s *ReviewService) Approve(ctx context.Context, actor policy.Actor, id uuid.UUID) (*ReviewView, error) {
	return s.moderate(ctx, actor, id, models.ReviewApproved)
}

func (s *ReviewService) Reject(ctx context.Context, actor policy.Actor, id uuid.UUID) (*ReviewView, error) {
	return s.moderate(ctx, actor, id, models.ReviewRejected)
}

func (s *ReviewService) moderate(ctx context.Context, actor policy.Actor, id uuid.UUID, to models.ReviewStatus) (*ReviewView, error) {
	review, err := s.moderatable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	from := review.Status
	if !from.CanTransitionTo(to) {
		metrics.RecordTransition("review", string(to), metrics.ResultRejected)
		return nil, apperrors.NewInvalidTransitionError("review", from, to)
	}
	if from == to {
		metrics.RecordTransition("review", string(to), metrics.ResultNoop)
		v := viewOf(*review)
		return &v, nil
	}

	review.Status = to
	if err := s.save(ctx, review); err != nil {
		return nil, err
	}
	metrics.RecordTransition("review", string(to), metrics.ResultApplied)
	log.Info().Str("review_id", review.ID.String()).Str("from", string(from)).Str("to", string(to)).Msg("Review status changed")
	s.notifier.Notify(ctx, review.UserID, fmt.Sprintf("Your review has been %s.", to))
	v := viewOf(*review)
	return &v, nil
}

// Flag marks the review for attention. The publish status is left alone.
func (s *ReviewService) Flag(ctx context.Context, actor policy.Actor, id uuid.UUID, reason string) (*ReviewView, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.NewValidationError("A flag reason is required")
	}
	review, err := s.moderatable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	review.IsFlagged = true
	review.FlagReason = reason
	if err := s.save(ctx, review); err != nil {
		return nil, err
	}
	metrics.RecordTransition("review", "flagged", metrics.ResultApplied)
	v := viewOf(*review)
	return &v, nil
}

// Unflag clears the flag. It never restores an earlier status.
func (s *ReviewService) Unflag(ctx context.Context, actor policy.Actor, id uuid.UUID) (*ReviewView, error) {
	review, err := s.moderatable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !review.IsFlagged {
		metrics.RecordTransition("review", "unflagged", metrics.ResultNoop)
		v := viewOf(*review)
		return &v, nil
	}
	review.IsFlagged = false
	review.FlagReason = ""
	if err := s.save(ctx, review); err != nil {
		return nil, err
	}
	metrics.RecordTransition("review", "unflagged", metrics.ResultApplied)
	v := viewOf(*review)
	return &v, nil
}

// Delete is open to admins and to the review's author.
func (s *ReviewService) Delete(ctx context.Context, actor policy.Actor, id uuid.UUID) error {
	review, err := s.store.Reviews.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.Can(policy.ReviewModerate) && (actor.Anonymous() || actor.UserID != review.UserID) {
		return apperrors.NewForbiddenError("You cannot delete this review")
	}
	return s.store.Reviews.Delete(ctx, id)
}

func (s *ReviewService) moderatable(ctx context.Context, actor policy.Actor, id uuid.UUID) (*models.Review, error) {
	if err := requireCapability(actor, policy.ReviewModerate); err != nil {
		return nil, err
	}
	return s.store.Reviews.FindByID(ctx, id)
}

func (s *ReviewService) save(ctx context.Context, review *models.Review) error {
	review.UpdatedAt = s.now()
	return s.store.Reviews.Save(ctx, review)
}

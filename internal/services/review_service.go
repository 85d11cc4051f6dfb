package services

import (
	"errors"

	"maidmatch_backend/internal/logger"
	"maidmatch_backend/internal/models"
	"maidmatch_backend/internal/repositories"
	"maidmatch_backend/internal/services/dto"
	"maidmatch_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// ReviewService owns reviews of completed jobs and is the only writer of
// the aggregate rating on identities.
type ReviewService interface {
	SubmitReview(db *gorm.DB, jobID, reviewerID string, req *dto.SubmitReviewRequest) (*dto.ReviewResponse, error)
	UpdateReview(db *gorm.DB, reviewID, reviewerID string, req *dto.UpdateReviewRequest) (*dto.ReviewResponse, error)
	DeleteReview(db *gorm.DB, reviewID, reviewerID string) error

	GetReview(db *gorm.DB, reviewID string) (*dto.ReviewResponse, error)
	GetJobReviews(db *gorm.DB, jobID string) ([]*dto.ReviewResponse, error)
	GetUserReviews(db *gorm.DB, userID string, page, pageSize int) (*dto.ReviewListResponse, error)
	GetRatingStats(db *gorm.DB, userID string) (*repositories.RatingStats, error)
}

type reviewService struct {
	store
	reviewRepo repositories.ReviewRepository
	jobRepo    repositories.JobRepository
	userRepo   repositories.UserRepository
	notifier   NotificationGateway
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	jobRepo repositories.JobRepository,
	userRepo repositories.UserRepository,
	notifier NotificationGateway,
	opts Options,
) ReviewService {
	return &reviewService{
		store:      store{timeout: opts.QueryTimeout},
		reviewRepo: reviewRepo,
		jobRepo:    jobRepo,
		userRepo:   userRepo,
		notifier:   notifier,
	}
}

func validRating(rating int) bool {
	return rating >= 1 && rating <= 5
}

// counterpart returns the other party of the job and the resulting review type.
func counterpart(job *models.Job, reviewerID string) (string, models.ReviewType, bool) {
	if job.ProviderID == nil {
		return "", "", false
	}
	switch reviewerID {
	case job.RequesterID:
		return *job.ProviderID, models.ReviewTypeProvider, true
	case *job.ProviderID:
		return job.RequesterID, models.ReviewTypeRequester, true
	}
	return "", "", false
}

func (s *reviewService) SubmitReview(db *gorm.DB, jobID, reviewerID string, req *dto.SubmitReviewRequest) (*dto.ReviewResponse, error) {
	var review *models.Review

	err := s.transaction(db, func(tx *gorm.DB) error {
		job, err := s.jobRepo.FindByID(tx, jobID)
		if err != nil {
			return err
		}
		if job.Status != models.JobStatusCompleted {
			return ErrJobNotCompleted
		}

		revieweeID, reviewType, ok := counterpart(job, reviewerID)
		if !ok {
			return ErrNotJobParty
		}

		if _, err := s.reviewRepo.FindByJobAndReviewer(tx, jobID, reviewerID); err == nil {
			return repositories.ErrDuplicateReview
		} else if !errors.Is(err, repositories.ErrReviewNotFound) {
			return err
		}

		if !validRating(req.Rating) {
			return apperrors.ErrInvalidRating
		}

		// serializes aggregate recomputation per reviewee
		if _, err := s.userRepo.LockByID(tx, revieweeID); err != nil {
			return err
		}

		review = &models.Review{
			JobID:      jobID,
			ReviewerID: reviewerID,
			RevieweeID: revieweeID,
			Rating:     req.Rating,
			Comment:    req.Comment,
			ReviewType: reviewType,
		}
		if err := s.reviewRepo.Create(tx, review); err != nil {
			return err
		}
		return s.recompute(tx, revieweeID)
	})
	if err != nil {
		return nil, err
	}

	ctx := contextOf(db)
	logger.CtxInfo(ctx, "review submitted",
		"review_id", review.ID, "job_id", jobID, "reviewee_id", review.RevieweeID, "rating", review.Rating)
	s.notifier.Notify(ctx, models.EventReviewCreated, models.NotificationPayload{
		Recipients: []string{review.RevieweeID},
		Title:      "New review",
		Message:    "You received a new review",
		Data: map[string]interface{}{
			"job_id":    jobID,
			"review_id": review.ID,
			"rating":    review.Rating,
		},
	})
	return dto.NewReviewResponse(review), nil
}

func (s *reviewService) UpdateReview(db *gorm.DB, reviewID, reviewerID string, req *dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	var review *models.Review

	err := s.transaction(db, func(tx *gorm.DB) error {
		current, err := s.reviewRepo.FindByID(tx, reviewID)
		if err != nil {
			return err
		}
		if current.ReviewerID != reviewerID {
			return ErrNotReviewer
		}
		if req.Rating != nil && !validRating(*req.Rating) {
			return apperrors.ErrInvalidRating
		}

		fields := map[string]interface{}{}
		if req.Rating != nil {
			fields["rating"] = *req.Rating
		}
		if req.Comment != nil {
			fields["comment"] = *req.Comment
		}
		if len(fields) == 0 {
			review = current
			return nil
		}

		if _, err := s.userRepo.LockByID(tx, current.RevieweeID); err != nil {
			return err
		}
		if err := s.reviewRepo.Update(tx, reviewID, fields); err != nil {
			return err
		}
		if err := s.recompute(tx, current.RevieweeID); err != nil {
			return err
		}
		review, err = s.reviewRepo.FindByID(tx, reviewID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return dto.NewReviewResponse(review), nil
}

func (s *reviewService) DeleteReview(db *gorm.DB, reviewID, reviewerID string) error {
	return s.transaction(db, func(tx *gorm.DB) error {
		review, err := s.reviewRepo.FindByID(tx, reviewID)
		if err != nil {
			return err
		}
		if review.ReviewerID != reviewerID {
			return ErrNotReviewer
		}

		if _, err := s.userRepo.LockByID(tx, review.RevieweeID); err != nil {
			return err
		}
		if err := s.reviewRepo.Delete(tx, reviewID); err != nil {
			return err
		}
		return s.recompute(tx, review.RevieweeID)
	})
}

// recompute rewrites the reviewee's rating from all of their current
// reviews. Callers hold the reviewee's row lock.
func (s *reviewService) recompute(tx *gorm.DB, revieweeID string) error {
	avg, count, err := s.reviewRepo.Aggregate(tx, revieweeID)
	if err != nil {
		return err
	}
	return s.userRepo.UpdateRating(tx, revieweeID, avg, count)
}

func (s *reviewService) GetReview(db *gorm.DB, reviewID string) (*dto.ReviewResponse, error) {
	var review *models.Review
	err := s.read(db, func(db *gorm.DB) error {
		var err error
		review, err = s.reviewRepo.FindByID(db, reviewID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return dto.NewReviewResponse(review), nil
}

func (s *reviewService) GetJobReviews(db *gorm.DB, jobID string) ([]*dto.ReviewResponse, error) {
	var reviews []models.Review
	err := s.read(db, func(db *gorm.DB) error {
		if _, err := s.jobRepo.FindByID(db, jobID); err != nil {
			return err
		}
		var err error
		reviews, err = s.reviewRepo.FindByJob(db, jobID)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := make([]*dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		resp = append(resp, dto.NewReviewResponse(&reviews[i]))
	}
	return resp, nil
}

func (s *reviewService) GetUserReviews(db *gorm.DB, userID string, page, pageSize int) (*dto.ReviewListResponse, error) {
	var (
		reviews []models.Review
		total   int64
	)
	err := s.read(db, func(db *gorm.DB) error {
		var err error
		reviews, total, err = s.reviewRepo.FindByReviewee(db, userID, page, pageSize)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.ReviewListResponse{
		Reviews:    make([]*dto.ReviewResponse, 0, len(reviews)),
		Pagination: dto.NewPagination(total, page, pageSize),
	}
	for i := range reviews {
		resp.Reviews = append(resp.Reviews, dto.NewReviewResponse(&reviews[i]))
	}
	return resp, nil
}

func (s *reviewService) GetRatingStats(db *gorm.DB, userID string) (*repositories.RatingStats, error) {
	var stats *repositories.RatingStats
	err := s.read(db, func(db *gorm.DB) error {
		if _, err := s.userRepo.FindByID(db, userID); err != nil {
			return err
		}
		var err error
		stats, err = s.reviewRepo.GetRatingStats(db, userID)
		return err
	})
	return stats, err
}

package repositories

import (
	"time"

	"maidmatch_backend/internal/models"

	"gorm.io/gorm"
)

// RatingStats summarizes the reviews a user has received.
type RatingStats struct {
	AverageRating float64       `json:"average_rating"`
	TotalReviews  int64         `json:"total_reviews"`
	RatingCounts  map[int]int64 `json:"rating_counts"`
	RecentReviews int64         `json:"recent_reviews"` // last 30 days
}

type ReviewRepository interface {
	Create(db *gorm.DB, review *models.Review) error
	FindByID(db *gorm.DB, id string) (*models.Review, error)
	FindByJobAndReviewer(db *gorm.DB, jobID, reviewerID string) (*models.Review, error)
	FindByJob(db *gorm.DB, jobID string) ([]models.Review, error)
	FindByReviewee(db *gorm.DB, revieweeID string, page, pageSize int) ([]models.Review, int64, error)
	Update(db *gorm.DB, id string, fields map[string]interface{}) error
	Delete(db *gorm.DB, id string) error

	// Aggregate is the full recompute: mean rating and count over every
	// review of the reviewee, 0 when there are none.
	Aggregate(db *gorm.DB, revieweeID string) (float64, int64, error)
	GetRatingStats(db *gorm.DB, revieweeID string) (*RatingStats, error)
}

type ReviewRepositoryImpl struct{}

func NewReviewRepository() ReviewRepository {
	return &ReviewRepositoryImpl{}
}

func (r *ReviewRepositoryImpl) Create(db *gorm.DB, review *models.Review) error {
	return duplicate(db.Create(review).Error, ErrDuplicateReview)
}

func (r *ReviewRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Review, error) {
	var review models.Review
	if err := db.First(&review, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrReviewNotFound)
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) FindByJobAndReviewer(db *gorm.DB, jobID, reviewerID string) (*models.Review, error) {
	var review models.Review
	err := db.Where("job_id = ? AND reviewer_id = ?", jobID, reviewerID).First(&review).Error
	if err != nil {
		return nil, notFound(err, ErrReviewNotFound)
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) FindByJob(db *gorm.DB, jobID string) ([]models.Review, error) {
	var reviews []models.Review
	err := db.Where("job_id = ?", jobID).Order("created_at ASC").Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepositoryImpl) FindByReviewee(db *gorm.DB, revieweeID string, page, pageSize int) ([]models.Review, int64, error) {
	var total int64
	q := db.Model(&models.Review{}).Where("reviewee_id = ?", revieweeID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	err := db.Where("reviewee_id = ?", revieweeID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&reviews).Error
	return reviews, total, err
}

func (r *ReviewRepositoryImpl) Update(db *gorm.DB, id string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now().UTC()
	result := db.Model(&models.Review{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (r *ReviewRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.Review{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (r *ReviewRepositoryImpl) Aggregate(db *gorm.DB, revieweeID string) (float64, int64, error) {
	var row struct {
		Average float64
		Total   int64
	}
	err := db.Model(&models.Review{}).
		Where("reviewee_id = ?", revieweeID).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS total").
		Scan(&row).Error
	return row.Average, row.Total, err
}

func (r *ReviewRepositoryImpl) GetRatingStats(db *gorm.DB, revieweeID string) (*RatingStats, error) {
	avg, total, err := r.Aggregate(db, revieweeID)
	if err != nil {
		return nil, err
	}
	stats := &RatingStats{
		AverageRating: avg,
		TotalReviews:  total,
		RatingCounts:  map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}

	var buckets []struct {
		Rating int
		Count  int64
	}
	err = db.Model(&models.Review{}).
		Where("reviewee_id = ?", revieweeID).
		Select("rating, COUNT(*) AS count").
		Group("rating").
		Scan(&buckets).Error
	if err != nil {
		return nil, err
	}
	for _, b := range buckets {
		stats.RatingCounts[b.Rating] = b.Count
	}

	monthAgo := time.Now().UTC().AddDate(0, -1, 0)
	if err := db.Model(&models.Review{}).
		Where("reviewee_id = ? AND created_at >= ?", revieweeID, monthAgo).
		Count(&stats.RecentReviews).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

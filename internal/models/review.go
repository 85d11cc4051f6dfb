package models

type Review struct {
	BaseModel
	JobID      string     `gorm:"size:36;not null;uniqueIndex:idx_review_job_reviewer,priority:1"`
	ReviewerID string     `gorm:"size:36;not null;uniqueIndex:idx_review_job_reviewer,priority:2"`
	RevieweeID string     `gorm:"size:36;not null;index"`
	Rating     int        `gorm:"not null;check:chk_reviews_rating,rating >= 1 AND rating <= 5"`
	Comment    *string    `gorm:"type:text"`
	ReviewType ReviewType `gorm:"size:20;not null"`
}

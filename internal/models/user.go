package models

import "time"

// User mirrors an identity from the external directory. Rating and
// ReviewCount are derived and written only by the review ledger.
type User struct {
	ID                 string             `gorm:"size:36;primaryKey"`
	Name               string             `gorm:"size:200"`
	Role               UserRole           `gorm:"size:20;not null;index"`
	VerificationStatus VerificationStatus `gorm:"size:20;not null;default:pending"`
	Rating             float64            `gorm:"not null;default:0"`
	ReviewCount        int64              `gorm:"not null;default:0"`
	CreatedAt          time.Time          `gorm:"autoCreateTime"`
	UpdatedAt          time.Time          `gorm:"autoUpdateTime"`
}

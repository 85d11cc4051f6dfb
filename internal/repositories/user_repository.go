package repositories

import (
	"time"

	"maidmatch_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	FindByID(db *gorm.DB, id string) (*models.User, error)
	// LockByID loads the row with an exclusive lock held until the
	// surrounding transaction ends.
	LockByID(db *gorm.DB, id string) (*models.User, error)
	// Upsert writes identity fields from the directory; rating fields are untouched.
	Upsert(db *gorm.DB, user *models.User) error
	UpdateRating(db *gorm.DB, id string, rating float64, count int64) error
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &user, nil
}

func (r *UserRepositoryImpl) LockByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	err := db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		First(&user, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Upsert(db *gorm.DB, user *models.User) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "role", "verification_status", "updated_at"}),
	}).Omit("rating", "review_count").Create(user).Error
}

func (r *UserRepositoryImpl) UpdateRating(db *gorm.DB, id string, rating float64, count int64) error {
	result := db.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"rating":       rating,
		"review_count": count,
		"updated_at":   time.Now().UTC(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

package repositories

import (
	"time"

	"maidmatch_backend/internal/models"

	"gorm.io/gorm"
)

type ApplicationRepository interface {
	Create(db *gorm.DB, app *models.JobApplication) error
	FindByJobAndProvider(db *gorm.DB, jobID, providerID string) (*models.JobApplication, error)
	FindByProvider(db *gorm.DB, providerID string, status models.ApplicationStatus, page, pageSize int) ([]models.JobApplication, int64, error)
	NextPosition(db *gorm.DB, jobID string) (int, error)
	// SetStatus changes one application only if it is still in status from.
	SetStatus(db *gorm.DB, id string, from, to models.ApplicationStatus) (bool, error)
	// RejectSiblings rejects every application on the job except the given provider's.
	RejectSiblings(db *gorm.DB, jobID, keepProviderID string) ([]string, error)
}

type ApplicationRepositoryImpl struct{}

func NewApplicationRepository() ApplicationRepository {
	return &ApplicationRepositoryImpl{}
}

func (r *ApplicationRepositoryImpl) Create(db *gorm.DB, app *models.JobApplication) error {
	return duplicate(db.Create(app).Error, ErrDuplicateApplication)
}

func (r *ApplicationRepositoryImpl) FindByJobAndProvider(db *gorm.DB, jobID, providerID string) (*models.JobApplication, error) {
	var app models.JobApplication
	err := db.Where("job_id = ? AND provider_id = ?", jobID, providerID).First(&app).Error
	if err != nil {
		return nil, notFound(err, ErrApplicationNotFound)
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) FindByProvider(db *gorm.DB, providerID string, status models.ApplicationStatus, page, pageSize int) ([]models.JobApplication, int64, error) {
	scope := func(tx *gorm.DB) *gorm.DB {
		tx = tx.Where("provider_id = ?", providerID)
		if status != "" {
			tx = tx.Where("status = ?", status)
		}
		return tx
	}

	var total int64
	if err := db.Model(&models.JobApplication{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var apps []models.JobApplication
	err := db.Scopes(scope).
		Order("applied_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&apps).Error
	return apps, total, err
}

func (r *ApplicationRepositoryImpl) NextPosition(db *gorm.DB, jobID string) (int, error) {
	var maxPos int
	err := db.Model(&models.JobApplication{}).
		Where("job_id = ?", jobID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&maxPos).Error
	return maxPos + 1, err
}

func (r *ApplicationRepositoryImpl) SetStatus(db *gorm.DB, id string, from, to models.ApplicationStatus) (bool, error) {
	result := db.Model(&models.JobApplication{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *ApplicationRepositoryImpl) RejectSiblings(db *gorm.DB, jobID, keepProviderID string) ([]string, error) {
	var providerIDs []string
	err := db.Model(&models.JobApplication{}).
		Where("job_id = ? AND provider_id <> ? AND status <> ?", jobID, keepProviderID, models.ApplicationStatusRejected).
		Pluck("provider_id", &providerIDs).Error
	if err != nil {
		return nil, err
	}
	if len(providerIDs) == 0 {
		return nil, nil
	}

	err = db.Model(&models.JobApplication{}).
		Where("job_id = ? AND provider_id <> ?", jobID, keepProviderID).
		Updates(map[string]interface{}{"status": models.ApplicationStatusRejected, "updated_at": time.Now().UTC()}).Error
	return providerIDs, err
}

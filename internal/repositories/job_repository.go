package repositories

import (
	"strings"
	"time"

	"maidmatch_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JobFilter narrows job listings. Zero values match everything.
type JobFilter struct {
	Statuses       []models.JobStatus
	Location       string
	RequesterID    string
	ProviderID     string
	EmploymentType models.EmploymentType
}

// JobCursor is the keyset position after the last job returned.
type JobCursor struct {
	CreatedAt time.Time
	ID        string
}

type JobRepository interface {
	Create(db *gorm.DB, job *models.Job) error
	// FindByID loads the job with its applications in application order.
	FindByID(db *gorm.DB, id string) (*models.Job, error)
	// FindByIDForUpdate locks the job row for the rest of the transaction.
	FindByIDForUpdate(db *gorm.DB, id string) (*models.Job, error)
	// FindAfter returns up to limit jobs ordered by (created_at, id) strictly after cursor.
	FindAfter(db *gorm.DB, filter JobFilter, after *JobCursor, limit int) ([]models.Job, error)
	FindPage(db *gorm.DB, filter JobFilter, page, pageSize int) ([]models.Job, int64, error)
	Update(db *gorm.DB, id string, fields map[string]interface{}) error
	// CompareAndSetStatus moves the job to `to` only if its current status is in
	// `from`. It reports whether the row was changed.
	CompareAndSetStatus(db *gorm.DB, id string, from []models.JobStatus, to models.JobStatus, extra map[string]interface{}) (bool, error)
}

type JobRepositoryImpl struct{}

func NewJobRepository() JobRepository {
	return &JobRepositoryImpl{}
}

func (r *JobRepositoryImpl) Create(db *gorm.DB, job *models.Job) error {
	return db.Omit(clause.Associations).Create(job).Error
}

func (r *JobRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Job, error) {
	var job models.Job
	err := db.Preload("Applications", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC")
	}).First(&job, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, ErrJobNotFound)
	}
	return &job, nil
}

func (r *JobRepositoryImpl) FindByIDForUpdate(db *gorm.DB, id string) (*models.Job, error) {
	var job models.Job
	err := db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		First(&job, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, ErrJobNotFound)
	}
	return &job, nil
}

func applyJobFilter(db *gorm.DB, f JobFilter) *gorm.DB {
	q := db.Model(&models.Job{})
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	if f.Location != "" {
		q = q.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(f.Location)+"%")
	}
	if f.RequesterID != "" {
		q = q.Where("requester_id = ?", f.RequesterID)
	}
	if f.ProviderID != "" {
		q = q.Where("provider_id = ?", f.ProviderID)
	}
	if f.EmploymentType != "" {
		q = q.Where("employment_type = ?", f.EmploymentType)
	}
	return q
}

func (r *JobRepositoryImpl) FindAfter(db *gorm.DB, filter JobFilter, after *JobCursor, limit int) ([]models.Job, error) {
	q := applyJobFilter(db, filter)
	if after != nil {
		q = q.Where("(created_at > ? OR (created_at = ? AND id > ?))", after.CreatedAt, after.CreatedAt, after.ID)
	}

	var jobs []models.Job
	err := q.Order("created_at ASC").Order("id ASC").Limit(limit).Find(&jobs).Error
	return jobs, err
}

func (r *JobRepositoryImpl) FindPage(db *gorm.DB, filter JobFilter, page, pageSize int) ([]models.Job, int64, error) {
	var total int64
	if err := applyJobFilter(db, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var jobs []models.Job
	err := applyJobFilter(db, filter).
		Order("created_at DESC").Order("id DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&jobs).Error
	return jobs, total, err
}

func (r *JobRepositoryImpl) Update(db *gorm.DB, id string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now().UTC()
	result := db.Model(&models.Job{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) CompareAndSetStatus(db *gorm.DB, id string, from []models.JobStatus, to models.JobStatus, extra map[string]interface{}) (bool, error) {
	fields := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now().UTC(),
	}
	for k, v := range extra {
		fields[k] = v
	}

	result := db.Model(&models.Job{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(fields)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

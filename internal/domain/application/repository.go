package application

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type Repository interface {
	CreateWithFiles(ctx context.Context, app *Application, files []ApplicationFile) error
	List(ctx context.Context, filter ListFilter) ([]Application, int64, error)
	GetByID(ctx context.Context, id int64) (*Application, error)
	UpdateStatus(ctx context.Context, id int64, status Status) (*Application, error)
	DeleteWithFiles(ctx context.Context, id int64) ([]string, error)
	CountByStatus(ctx context.Context) (map[Status]int64, error)
	ReferencedPaths(ctx context.Context) (map[string]bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// CreateWithFiles inserts the application row and all of its file rows in
// one transaction; a failure on any insert leaves no rows behind.
func (r *repository) CreateWithFiles(ctx context.Context, app *Application, files []ApplicationFile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(app).Error; err != nil {
			return err
		}
		for i := range files {
			files[i].ApplicationID = app.ID
		}
		if len(files) > 0 {
			if err := tx.Create(&files).Error; err != nil {
				return err
			}
		}
		app.Files = files
		return nil
	})
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Application, int64, error) {
	filtered := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&Application{})
		if filter.Status != nil {
			q = q.Where("status = ?", *filter.Status)
		}
		if filter.Position != "" {
			q = q.Where("position = ?", filter.Position)
		}
		if filter.Search != "" {
			like := "%" + strings.ToLower(filter.Search) + "%"
			q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(position) LIKE ?", like, like, like)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := filtered().Preload("Files").Order("created_at DESC, id DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var apps []Application
	if err := q.Find(&apps).Error; err != nil {
		return nil, 0, err
	}
	for i := range apps {
		ensureFiles(&apps[i])
	}
	return apps, total, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Application, error) {
	var app Application
	err := r.db.WithContext(ctx).Preload("Files").First(&app, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, err
	}
	ensureFiles(&app)
	return &app, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status Status) (*Application, error) {
	res := r.db.WithContext(ctx).Model(&Application{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrApplicationNotFound
	}
	return r.GetByID(ctx, id)
}

// DeleteWithFiles removes the application and its file rows in one
// transaction and returns the stored paths for disk cleanup. The schema
// declares ON DELETE CASCADE; the child delete here keeps the rows gone
// even on connections where the constraint is not enforced.
func (r *repository) DeleteWithFiles(ctx context.Context, id int64) ([]string, error) {
	var paths []string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&ApplicationFile{}).
			Where("application_id = ?", id).
			Pluck("file_path", &paths).Error; err != nil {
			return err
		}
		if err := tx.Where("application_id = ?", id).Delete(&ApplicationFile{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&Application{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrApplicationNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return paths, nil
}

func (r *repository) CountByStatus(ctx context.Context) (map[Status]int64, error) {
	rows, err := r.db.WithContext(ctx).Model(&Application{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[Status]int64)
	for rows.Next() {
		var status Status
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// ReferencedPaths returns every stored path a committed row points at,
// for the orphan-upload sweep.
func (r *repository) ReferencedPaths(ctx context.Context) (map[string]bool, error) {
	var filePaths []string
	if err := r.db.WithContext(ctx).Model(&ApplicationFile{}).Pluck("file_path", &filePaths).Error; err != nil {
		return nil, err
	}
	var resumePaths []string
	if err := r.db.WithContext(ctx).Model(&Application{}).Pluck("resume", &resumePaths).Error; err != nil {
		return nil, err
	}

	referenced := make(map[string]bool, len(filePaths)+len(resumePaths))
	for _, p := range filePaths {
		referenced[p] = true
	}
	for _, p := range resumePaths {
		if p != "" {
			referenced[p] = true
		}
	}
	return referenced, nil
}

// Listings serialize files as an empty array, never null.
func ensureFiles(app *Application) {
	if app.Files == nil {
		app.Files = []ApplicationFile{}
	}
}

package repository

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"autopost/entities"
)

// ErrRecordNotFound is returned when no upload record exists for a filename.
var ErrRecordNotFound = errors.New("upload record not found")

// RecordStore is the persistent upload-record log. Upsert is keyed by
// filename: a second successful upload of the same asset replaces the
// record rather than appending a duplicate.
type RecordStore interface {
	Upsert(ctx context.Context, record *entities.UploadRecord) error
	FindByFilename(ctx context.Context, filename string) (*entities.UploadRecord, error)
	List(ctx context.Context) ([]*entities.UploadRecord, error)
}

type repo struct {
	db *gorm.DB
}

func NewRepo(db *sql.DB) (RecordStore, error) {
	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		},
	)
	if err != nil {
		return nil, err
	}
	return &repo{
		db: gormDB,
	}, nil
}

func (r *repo) Upsert(ctx context.Context, record *entities.UploadRecord) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "filename"}},
		UpdateAll: true,
	}).Create(record).Error
}

func (r *repo) FindByFilename(ctx context.Context, filename string) (*entities.UploadRecord, error) {
	record := &entities.UploadRecord{}
	err := r.db.WithContext(ctx).First(record, "filename = ?", filename).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	return record, nil
}

func (r *repo) List(ctx context.Context) ([]*entities.UploadRecord, error) {
	var records []*entities.UploadRecord
	err := r.db.WithContext(ctx).Order("uploaded_at DESC").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

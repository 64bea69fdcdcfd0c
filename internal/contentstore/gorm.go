package contentstore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/studyaid-backend/internal/domain"
)

// GormPersister stores the snapshot as one row of generated_content_records.
type GormPersister struct {
	db  *gorm.DB
	key string
}

// NewGormPersister migrates the record table and returns a persister bound to key.
func NewGormPersister(db *gorm.DB, key string) (*GormPersister, error) {
	if db == nil {
		return nil, fmt.Errorf("gorm db required")
	}
	if strings.TrimSpace(key) == "" {
		key = DefaultStorageKey
	}
	if err := db.AutoMigrate(&domain.GeneratedContentRecord{}); err != nil {
		return nil, fmt.Errorf("migrate generated_content_records: %w", err)
	}
	return &GormPersister{db: db, key: key}, nil
}

// OpenGorm opens a sqlite or postgres database for the persister.
func OpenGorm(dialect, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported gorm dialect %q", dialect)
	}
	gormLog := gormLogger.New(
		log.New(os.Stderr, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", dialect, err)
	}
	return db, nil
}

func (p *GormPersister) Load(ctx context.Context) (map[string]string, error) {
	var rec domain.GeneratedContentRecord
	err := p.db.WithContext(ctx).Where("storage_key = ?", p.key).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load content record: %w", err)
	}
	return decodeSnapshot(rec.Content)
}

func (p *GormPersister) Save(ctx context.Context, snapshot map[string]string) error {
	b, err := encodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	rec := domain.GeneratedContentRecord{
		StorageKey: p.key,
		Content:    datatypes.JSON(b),
		UpdatedAt:  time.Now().UTC(),
	}
	err = p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save content record: %w", err)
	}
	return nil
}

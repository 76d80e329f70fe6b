// Package store persists the latest fetched programme list per cache key,
// so a restarted process can serve a stale catalogue before its first
// successful fetch.
package store

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lushplayer/catalogue/internal/config"
	apperrors "github.com/lushplayer/catalogue/internal/errors"
	"github.com/lushplayer/catalogue/internal/models"
)

// ProgrammeRecord is one programme row inside a snapshot slot
type ProgrammeRecord struct {
	ID           uint   `gorm:"primaryKey"`
	SlotKey      string `gorm:"type:varchar(128);not null;index:idx_snapshot_slot"`
	Position     int    `gorm:"not null"`
	ProgrammeID  string `gorm:"type:varchar(64);not null"`
	GUID         string `gorm:"type:varchar(64)"`
	Title        string `gorm:"type:text"`
	Description  string `gorm:"type:text"`
	ThumbnailURL string `gorm:"type:text"`
	FileURL      string `gorm:"type:text"`
	DateString   string `gorm:"type:varchar(32)"`
	Duration     string `gorm:"type:varchar(32)"`
	Media        string `gorm:"type:varchar(16);not null"`
	FetchedAt    time.Time
}

// TableName specifies the table name for ProgrammeRecord
func (ProgrammeRecord) TableName() string {
	return "programme_snapshots"
}

// Store is a gorm-backed snapshot archive
type Store struct {
	db *gorm.DB
}

// Open connects to the configured backend and runs migrations. An empty
// driver means snapshots are disabled; Open returns nil in that case.
func Open(cfg config.DatabaseConfig) (*Store, error) {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "":
		return nil, nil
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
		)
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(cfg.Path)
	default:
		return nil, apperrors.ConfigError("unknown database driver "+cfg.Driver, nil)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStoreConnection, "failed to connect to snapshot store")
	}

	if err := db.AutoMigrate(&ProgrammeRecord{}); err != nil {
		return nil, apperrors.StoreError("failed to run migrations", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return apperrors.StoreError("failed to access underlying connection", err)
	}
	return sqlDB.Close()
}

// SaveMediaSnapshot replaces the snapshot slot for a media type
func (s *Store) SaveMediaSnapshot(ctx context.Context, media models.Media, programmes []models.Programme) error {
	return s.saveSlot(ctx, "media:"+media.String(), programmes)
}

// SaveChannelSnapshot replaces the snapshot slot for a channel tag
func (s *Store) SaveChannelSnapshot(ctx context.Context, channelTag string, programmes []models.Programme) error {
	return s.saveSlot(ctx, "channel:"+channelTag, programmes)
}

// LatestByMedia returns the last persisted programme list for a media type
func (s *Store) LatestByMedia(ctx context.Context, media models.Media) ([]models.Programme, error) {
	return s.loadSlot(ctx, "media:"+media.String())
}

// LatestByChannel returns the last persisted programme list for a channel tag
func (s *Store) LatestByChannel(ctx context.Context, channelTag string) ([]models.Programme, error) {
	return s.loadSlot(ctx, "channel:"+channelTag)
}

// ChannelSlots returns the channel tags that have a persisted snapshot
func (s *Store) ChannelSlots(ctx context.Context) ([]string, error) {
	var keys []string
	err := s.db.WithContext(ctx).
		Model(&ProgrammeRecord{}).
		Distinct("slot_key").
		Where("slot_key LIKE ?", "channel:%").
		Pluck("slot_key", &keys).Error
	if err != nil {
		return nil, apperrors.StoreError("failed to list channel slots", err)
	}

	tags := make([]string, 0, len(keys))
	for _, key := range keys {
		tags = append(tags, strings.TrimPrefix(key, "channel:"))
	}
	return tags, nil
}

// saveSlot replaces every row of a slot in one transaction, so readers never
// observe a half-written snapshot.
func (s *Store) saveSlot(ctx context.Context, slotKey string, programmes []models.Programme) error {
	fetchedAt := time.Now()

	records := make([]ProgrammeRecord, 0, len(programmes))
	for i, programme := range programmes {
		record := ProgrammeRecord{
			SlotKey:     slotKey,
			Position:    i,
			ProgrammeID: programme.ID,
			GUID:        programme.GUID,
			Title:       programme.Title,
			Description: programme.Description,
			DateString:  programme.DateString,
			Duration:    programme.Duration,
			Media:       programme.Media.String(),
			FetchedAt:   fetchedAt,
		}
		if programme.ThumbnailURL != nil {
			record.ThumbnailURL = programme.ThumbnailURL.String()
		}
		if programme.File != nil {
			record.FileURL = programme.File.String()
		}
		records = append(records, record)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("slot_key = ?", slotKey).Delete(&ProgrammeRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.CreateInBatches(records, 100).Error
	})
	if err != nil {
		return apperrors.StoreError("failed to save snapshot "+slotKey, err)
	}

	return nil
}

func (s *Store) loadSlot(ctx context.Context, slotKey string) ([]models.Programme, error) {
	var records []ProgrammeRecord
	err := s.db.WithContext(ctx).
		Where("slot_key = ?", slotKey).
		Order("position").
		Find(&records).Error
	if err != nil {
		return nil, apperrors.StoreError("failed to load snapshot "+slotKey, err)
	}

	programmes := make([]models.Programme, 0, len(records))
	for _, record := range records {
		programmes = append(programmes, record.toProgramme())
	}

	return programmes, nil
}

// toProgramme rebuilds a Programme value from a snapshot row. The web alias
// is not persisted, so restored programmes carry no web player URL.
func (r ProgrammeRecord) toProgramme() models.Programme {
	programme := models.Programme{
		ID:          r.ProgrammeID,
		GUID:        r.GUID,
		Title:       r.Title,
		Description: r.Description,
		DateString:  r.DateString,
		Duration:    r.Duration,
		Media:       models.Media(r.Media),
	}

	if r.ThumbnailURL != "" {
		if u, err := url.Parse(r.ThumbnailURL); err == nil {
			programme.ThumbnailURL = u
		}
	}
	if r.FileURL != "" {
		if u, err := url.Parse(r.FileURL); err == nil {
			programme.File = u
		}
	}
	if r.DateString != "" {
		if date, err := time.Parse("02/01/2006", r.DateString); err == nil {
			programme.Date = &date
		}
	}

	return programme
}

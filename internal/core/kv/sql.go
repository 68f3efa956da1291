package kv

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

type kvEntry struct {
	Key       string `gorm:"column:entry_key;primaryKey;size:191"`
	Value     []byte `gorm:"not null"`
	Version   int64  `gorm:"not null"`
	Deleted   bool   `gorm:"not null;default:false"`
	UpdatedAt time.Time
}

func (kvEntry) TableName() string { return "kv_entries" }

// SQL keeps entries in the kv_entries table; the CAS is an UPDATE guarded
// by the expected version. Delete marks the row deleted and keeps its version.
type SQL struct{ db *gorm.DB }

func NewSQL(db *gorm.DB, migrate bool) (*SQL, error) {
	if migrate {
		if err := db.AutoMigrate(&kvEntry{}); err != nil {
			return nil, err
		}
	}
	return &SQL{db: db}, nil
}

func (s *SQL) Get(ctx context.Context, key string) (Entry, error) {
	var e kvEntry
	err := s.db.WithContext(ctx).First(&e, "entry_key = ? AND deleted = ?", key, false).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, err
	}
	return Entry{Value: e.Value, Version: e.Version}, nil
}

func (s *SQL) Put(ctx context.Context, key string, value []byte, expectVersion int64) (int64, error) {
	tx := s.db.WithContext(ctx)
	if expectVersion == 0 {
		return s.create(tx, key, value)
	}
	return s.swap(tx, key, value, expectVersion, false)
}

// create inserts a new row, or revives a deleted one at its next version.
func (s *SQL) create(tx *gorm.DB, key string, value []byte) (int64, error) {
	var e kvEntry
	err := tx.First(&e, "entry_key = ?", key).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		err = tx.Create(&kvEntry{Key: key, Value: value, Version: 1, UpdatedAt: time.Now()}).Error
		if err != nil {
			if isDupKey(err) {
				return 0, ErrVersionConflict
			}
			return 0, err
		}
		return 1, nil
	case err != nil:
		return 0, err
	case !e.Deleted:
		return 0, ErrVersionConflict
	}
	return s.swap(tx, key, value, e.Version, true)
}

func (s *SQL) swap(tx *gorm.DB, key string, value []byte, from int64, deleted bool) (int64, error) {
	res := tx.Model(&kvEntry{}).
		Where("entry_key = ? AND version = ? AND deleted = ?", key, from, deleted).
		Updates(map[string]any{"value": value, "version": from + 1, "deleted": false, "updated_at": time.Now()})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrVersionConflict
	}
	return from + 1, nil
}

func (s *SQL) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Model(&kvEntry{}).
		Where("entry_key = ? AND deleted = ?", key, false).
		Updates(map[string]any{"value": []byte{}, "deleted": true, "updated_at": time.Now()}).Error
}

func (s *SQL) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func isDupKey(err error) bool {
	// driver messages differ; gorm.ErrDuplicatedKey needs TranslateError
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}

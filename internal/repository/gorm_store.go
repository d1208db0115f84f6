package repository

import (
	"context"
	"edusphere_backend/internal/model"
	"edusphere_backend/internal/util"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore 使用 kv_records 表保存状态文档（sqlite / mysql）
type GormStore struct {
	DB     *gorm.DB
	driver string
}

func NewGormStore(db *gorm.DB, driver string) *GormStore {
	return &GormStore{DB: db, driver: driver}
}

func (s *GormStore) Get(ctx context.Context, key string) ([]byte, error) {
	var record model.KVRecord
	err := s.DB.WithContext(ctx).Where("record_key = ?", key).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return record.Value, nil
}

func (s *GormStore) Put(ctx context.Context, key string, value []byte) error {
	record := model.KVRecord{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "record_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&record).Error
}

func (s *GormStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.DB.WithContext(ctx).Where("record_key IN ?", keys).Delete(&model.KVRecord{}).Error
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Name() string { return s.driver }

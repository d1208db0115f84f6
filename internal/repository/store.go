package repository

import (
	"context"
	"edusphere_backend/internal/model"
	"edusphere_backend/internal/util"
	"edusphere_backend/pkg/logger"
	"edusphere_backend/pkg/monitoring"
	"encoding/json"
	"errors"

	"go.uber.org/zap"
)

// Store 字节级键值存储；键不存在时 Get 返回 util.ErrKeyNotFound
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	Name() string
}

// StateRepository 把五个状态文档按 JSON 存入 Store。
// 读取失败（不存在、后端错误、解码失败）一律视为没有数据，不向调用方返回错误。
type StateRepository struct {
	Store Store
}

func NewStateRepository(store Store) *StateRepository {
	return &StateRepository{Store: store}
}

func (r *StateRepository) LoadUser(ctx context.Context) (*model.User, bool) {
	var user model.User
	if !r.load(ctx, util.KeyUser, &user) {
		return nil, false
	}
	return &user, true
}

func (r *StateRepository) SaveUser(ctx context.Context, user *model.User) error {
	return r.save(ctx, util.KeyUser, user)
}

func (r *StateRepository) LoadLessons(ctx context.Context) ([]model.Lesson, bool) {
	var lessons []model.Lesson
	if !r.load(ctx, util.KeyLessons, &lessons) {
		return nil, false
	}
	return lessons, true
}

func (r *StateRepository) SaveLessons(ctx context.Context, lessons []model.Lesson) error {
	return r.save(ctx, util.KeyLessons, lessons)
}

func (r *StateRepository) LoadChallenges(ctx context.Context) ([]model.Challenge, bool) {
	var challenges []model.Challenge
	if !r.load(ctx, util.KeyChallenges, &challenges) {
		return nil, false
	}
	return challenges, true
}

func (r *StateRepository) SaveChallenges(ctx context.Context, challenges []model.Challenge) error {
	return r.save(ctx, util.KeyChallenges, challenges)
}

func (r *StateRepository) LoadGroups(ctx context.Context) ([]model.CollaborationGroup, bool) {
	var groups []model.CollaborationGroup
	if !r.load(ctx, util.KeyGroups, &groups) {
		return nil, false
	}
	return groups, true
}

func (r *StateRepository) SaveGroups(ctx context.Context, groups []model.CollaborationGroup) error {
	return r.save(ctx, util.KeyGroups, groups)
}

func (r *StateRepository) LoadFeedback(ctx context.Context) ([]model.AIFeedback, bool) {
	var feedback []model.AIFeedback
	if !r.load(ctx, util.KeyFeedback, &feedback) {
		return nil, false
	}
	return feedback, true
}

func (r *StateRepository) SaveFeedback(ctx context.Context, feedback []model.AIFeedback) error {
	return r.save(ctx, util.KeyFeedback, feedback)
}

// Reset 删除所有已知键
func (r *StateRepository) Reset(ctx context.Context) error {
	err := r.Store.Delete(ctx, util.StateKeys...)
	monitoring.ObserveStore(r.Store.Name(), "reset", result(err))
	return err
}

func (r *StateRepository) Ping(ctx context.Context) error {
	return r.Store.Ping(ctx)
}

func (r *StateRepository) load(ctx context.Context, key string, v interface{}) bool {
	data, err := r.Store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, util.ErrKeyNotFound) {
			monitoring.ObserveStore(r.Store.Name(), "get", "miss")
		} else {
			monitoring.ObserveStore(r.Store.Name(), "get", "error")
			logger.Log.Warn("Failed to read state, treating as absent",
				zap.String("key", key), zap.String("store", r.Store.Name()), zap.Error(err))
		}
		return false
	}

	if err := json.Unmarshal(data, v); err != nil {
		monitoring.ObserveStore(r.Store.Name(), "get", "decode_error")
		logger.Log.Warn("Discarding undecodable state",
			zap.String("key", key), zap.String("store", r.Store.Name()), zap.Error(err))
		return false
	}

	monitoring.ObserveStore(r.Store.Name(), "get", "hit")
	return true
}

func (r *StateRepository) save(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	err = r.Store.Put(ctx, key, data)
	monitoring.ObserveStore(r.Store.Name(), "put", result(err))
	return err
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

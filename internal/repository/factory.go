package repository

import (
	"context"
	"edusphere_backend/internal/config"
	"edusphere_backend/internal/util"
	"edusphere_backend/pkg/database"
	"fmt"
)

// OpenStore 根据 store.driver 创建持久化后端，返回的 close 函数用于释放连接
func OpenStore(ctx context.Context, cfg *config.Config) (Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store.Driver {
	case util.StoreLocal, "":
		s, err := NewLocalStore(cfg.Store.LocalPath)
		return s, noop, err

	case util.StoreMemory:
		return NewMemoryStore(), noop, nil

	case util.StoreSQLite, util.StoreMySQL:
		dbCfg := cfg.Database
		dbCfg.Driver = cfg.Store.Driver
		db, err := database.InitDB(&dbCfg, cfg.Server.Mode)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}
		return NewGormStore(db, cfg.Store.Driver), closeFn, nil

	case util.StoreRedis:
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisStore(rdb, cfg.Store.KeyPrefix), rdb.Close, nil

	case util.StoreMinio:
		p, err := NewMinioProvider(ctx, &cfg.Storage)
		if err != nil {
			return nil, nil, err
		}
		return NewObjectStore(p, util.StoreMinio), noop, nil

	case util.StoreOSS:
		p, err := NewOSSProvider(&cfg.Storage)
		if err != nil {
			return nil, nil, err
		}
		return NewObjectStore(p, util.StoreOSS), noop, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}

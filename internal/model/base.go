package model

import (
	"time"

	"github.com/google/uuid"
)

// KVRecord 键值存储的一行，SQL 后端（sqlite / mysql）使用
type KVRecord struct {
	Key       string    `gorm:"column:record_key;primaryKey;size:64" json:"key"`
	Value     []byte    `gorm:"column:value;not null" json:"value"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (KVRecord) TableName() string {
	return "kv_records"
}

// catalogNamespace 内置内容的确定性ID命名空间
var catalogNamespace = uuid.MustParse("6f1c3a8e-2d4b-4c7a-9e51-0b7d2f6a4c13")

func GenerateUUID() string {
	return uuid.New().String()
}

// CatalogID 根据稳定的 slug 生成内置内容ID，同一 slug 总是得到同一个ID
func CatalogID(slug string) string {
	return uuid.NewSHA1(catalogNamespace, []byte(slug)).String()
}

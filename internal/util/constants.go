package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

// 持久化后端
const (
	StoreLocal  = "local"
	StoreSQLite = "sqlite"
	StoreMySQL  = "mysql"
	StoreRedis  = "redis"
	StoreMinio  = "minio"
	StoreOSS    = "oss"
	StoreMemory = "memory"
)

// 持久化键，每个键是一份独立的 JSON 文档
const (
	KeyUser       = "currentUser"
	KeyLessons    = "userLessons"
	KeyChallenges = "userChallenges"
	KeyGroups     = "userGroups"
	KeyFeedback   = "userFeedback"
)

var StateKeys = []string{KeyUser, KeyLessons, KeyChallenges, KeyGroups, KeyFeedback}

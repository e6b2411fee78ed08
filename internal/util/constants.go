package util

const (
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

const (
	RoleAdmin = "admin"
	RoleJudge = "judge"
)

const (
	ContestCacheKeyPrefix = "contest:"
	ContestCreateLockKey  = "lock:contest:create"
)

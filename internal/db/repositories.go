package db

import "gorm.io/gorm"

type Repositories struct {
	State *StateRepository
	Lock  *LockRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		State: NewStateRepository(database),
		Lock:  NewLockRepository(database),
	}
}

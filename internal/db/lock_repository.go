package db

import (
	"errors"
	"time"

	"github.com/terraincognita07/cyclemate/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const lockRowID = 1

type LockRepository struct {
	database *gorm.DB
}

func NewLockRepository(database *gorm.DB) *LockRepository {
	return &LockRepository{database: database}
}

func (repo *LockRepository) LoadPasscodeHash() (string, error) {
	var lock models.AppLock
	err := repo.database.First(&lock, lockRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return lock.PasscodeHash, nil
}

func (repo *LockRepository) SavePasscodeHash(hash string) error {
	lock := models.AppLock{ID: lockRowID, PasscodeHash: hash, UpdatedAt: time.Now().UTC()}
	return repo.database.Clauses(clause.OnConflict{UpdateAll: true}).Create(&lock).Error
}

func (repo *LockRepository) ClearPasscodeHash() error {
	return repo.database.Where("id = ?", lockRowID).Delete(&models.AppLock{}).Error
}

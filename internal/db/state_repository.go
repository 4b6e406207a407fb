package db

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/terraincognita07/cyclemate/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// stateRowID is the primary key of the single app_state row.
const stateRowID = 1

type StateRepository struct {
	database *gorm.DB
}

func NewStateRepository(database *gorm.DB) *StateRepository {
	return &StateRepository{database: database}
}

// Load returns the stored document. The bool is false when nothing has been saved yet.
func (repo *StateRepository) Load() (models.StateSnapshot, bool, error) {
	var snapshot models.StateSnapshot
	err := repo.database.First(&snapshot, stateRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.StateSnapshot{}, false, nil
	}
	if err != nil {
		return models.StateSnapshot{}, false, err
	}
	return snapshot, true, nil
}

// Save replaces the stored document. Writing an identical payload is skipped.
func (repo *StateRepository) Save(schemaVersion int, payload []byte) error {
	checksum := PayloadChecksum(payload)

	current, found, err := repo.Load()
	if err != nil {
		return err
	}
	if found && current.Checksum == checksum && current.SchemaVersion == schemaVersion {
		return nil
	}

	snapshot := models.StateSnapshot{
		ID:            stateRowID,
		SchemaVersion: schemaVersion,
		Payload:       string(payload),
		Checksum:      checksum,
		UpdatedAt:     time.Now().UTC(),
	}
	return repo.database.Clauses(clause.OnConflict{UpdateAll: true}).Create(&snapshot).Error
}

func (repo *StateRepository) Clear() error {
	return repo.database.Where("id = ?", stateRowID).Delete(&models.StateSnapshot{}).Error
}

func PayloadChecksum(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

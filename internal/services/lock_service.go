package services

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrPasscodeInvalid    = errors.New("passcode must be 4 to 12 digits")
	ErrPasscodeMismatch   = errors.New("passcode does not match")
	ErrPasscodeAlreadySet = errors.New("passcode already set")
	ErrPasscodeNotSet     = errors.New("passcode not set")
)

const (
	minPasscodeLength = 4
	maxPasscodeLength = 12
)

// LockRepository stores the single bcrypt hash guarding the app. An empty
// hash with a nil error means no passcode has been configured.
type LockRepository interface {
	LoadPasscodeHash() (string, error)
	SavePasscodeHash(hash string) error
	ClearPasscodeHash() error
}

type LockService struct {
	repo LockRepository
	cost int
}

func NewLockService(repo LockRepository) *LockService {
	return &LockService{repo: repo, cost: bcrypt.DefaultCost}
}

func ValidatePasscode(passcode string) error {
	length := len([]rune(passcode))
	if length < minPasscodeLength || length > maxPasscodeLength {
		return ErrPasscodeInvalid
	}
	for _, char := range passcode {
		if !unicode.IsDigit(char) || char > unicode.MaxASCII {
			return ErrPasscodeInvalid
		}
	}
	return nil
}

func (service *LockService) IsConfigured() (bool, error) {
	hash, err := service.repo.LoadPasscodeHash()
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(hash) != "", nil
}

func (service *LockService) Setup(passcode string) error {
	if err := ValidatePasscode(passcode); err != nil {
		return err
	}
	configured, err := service.IsConfigured()
	if err != nil {
		return err
	}
	if configured {
		return ErrPasscodeAlreadySet
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), service.cost)
	if err != nil {
		return err
	}
	return service.repo.SavePasscodeHash(string(hash))
}

func (service *LockService) Verify(passcode string) error {
	hash, err := service.repo.LoadPasscodeHash()
	if err != nil {
		return err
	}
	hash = strings.TrimSpace(hash)
	if hash == "" {
		return ErrPasscodeNotSet
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(passcode)) != nil {
		return ErrPasscodeMismatch
	}
	return nil
}

func (service *LockService) Reset() error {
	return service.repo.ClearPasscodeHash()
}

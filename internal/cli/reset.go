package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/terraincognita07/cyclemate/internal/db"
	"github.com/terraincognita07/cyclemate/internal/security"
	"github.com/terraincognita07/cyclemate/internal/services"
)

const temporaryPasscodeLength = 6

var errPasscodeConfirmation = errors.New("passcodes do not match")

// RunResetPasscodeCommand replaces the app lock passcode. With prompt set the
// new passcode is read from the terminal, otherwise a temporary one is printed.
func RunResetPasscodeCommand(dbPath string, prompt bool) error {
	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	repositories := db.NewRepositories(database)

	passcode := ""
	if prompt {
		passcode, err = promptPasscode(os.Stdin, os.Stdout)
		if err != nil {
			return err
		}
	}
	return resetPasscode(services.NewLockService(repositories.Lock), passcode, os.Stdout)
}

func resetPasscode(lock *services.LockService, passcode string, out io.Writer) error {
	temporary := passcode == ""
	if temporary {
		generated, err := security.NewTemporaryPasscode(temporaryPasscodeLength)
		if err != nil {
			return fmt.Errorf("generate temporary passcode: %w", err)
		}
		passcode = generated
	}
	if err := services.ValidatePasscode(passcode); err != nil {
		return fmt.Errorf("invalid passcode: %w", err)
	}

	if err := lock.Reset(); err != nil {
		return fmt.Errorf("clear passcode: %w", err)
	}
	if err := lock.Setup(passcode); err != nil {
		return fmt.Errorf("store passcode: %w", err)
	}

	fmt.Fprintln(out, "Passcode reset successful")
	if temporary {
		fmt.Fprintf(out, "Temporary passcode: %s\n", passcode)
	}
	return nil
}

func promptPasscode(stdin *os.File, out io.Writer) (string, error) {
	fmt.Fprint(out, "New passcode: ")
	first, err := readSecretNoEcho(stdin)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read passcode: %w", err)
	}

	fmt.Fprint(out, "Repeat passcode: ")
	second, err := readSecretNoEcho(stdin)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read passcode: %w", err)
	}

	passcode := strings.TrimSpace(string(first))
	if passcode != strings.TrimSpace(string(second)) {
		return "", errPasscodeConfirmation
	}
	return passcode, nil
}

package cli

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
)

var errNoStdin = errors.New("stdin unavailable")

// readSecretNoEcho reads one line from the terminal with echo turned off.
func readSecretNoEcho(stdin *os.File) ([]byte, error) {
	if stdin == nil {
		return nil, errNoStdin
	}

	restore, err := disableEcho(stdin)
	if err != nil {
		return nil, err
	}
	defer restore()

	return readSecretLine(stdin)
}

func readSecretLine(source io.Reader) ([]byte, error) {
	line, err := bufio.NewReader(source).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}

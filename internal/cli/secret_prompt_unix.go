//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package cli

import (
	"os"

	"golang.org/x/sys/unix"
)

func disableEcho(stdin *os.File) (func(), error) {
	fd := int(stdin.Fd())
	current, err := getTermios(fd)
	if err != nil {
		return nil, err
	}

	original := *current
	silent := original
	silent.Lflag &^= unix.ECHO
	if err := setTermios(fd, &silent); err != nil {
		return nil, err
	}
	return func() { _ = setTermios(fd, &original) }, nil
}

//go:build unix

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

// mapEarthFile maps path read only after checking its size. The mapping
// lives for the rest of the process unless LoadEarthMaps fails.
func mapEarthFile(path string, want int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DisplayError{Operation: "earth map", Details: "open", Err: err}
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return nil, &DisplayError{Operation: "earth map", Details: "stat " + path, Err: err}
	}
	if st.Size() != int64(want) {
		return nil, earthSizeError(path, st.Size(), want)
	}
	b, err := unix.Mmap(int(f.Fd()), 0, want, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, &DisplayError{Operation: "earth map", Details: "mmap " + path, Err: err}
	}
	return b, nil
}

func unmapEarthFile(b []byte) error {
	return unix.Munmap(b)
}

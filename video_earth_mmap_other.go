//go:build !unix

package main

import (
	"os"
)

func mapEarthFile(path string, want int) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &DisplayError{Operation: "earth map", Details: "read", Err: err}
	}
	if len(b) != want {
		return nil, earthSizeError(path, int64(len(b)), want)
	}
	return b, nil
}

func unmapEarthFile(b []byte) error { return nil }

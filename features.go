package main

import (
	"fmt"
	"io"
	"runtime"
	"sort"
)

const Version = "0.3.0"

// compiledFeatures tracks build-time feature flags via init() registration.
var compiledFeatures []string

func printFeatures(w io.Writer) {
	fmt.Fprintf(w, "ra8875emu %s\n", Version)
	fmt.Fprintf(w, "  Go version: %s\n", runtime.Version())
	fmt.Fprintf(w, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Backends:")
	for _, n := range BackendNames() {
		fmt.Fprintf(w, "  %s\n", n)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Compiled features:")

	feats := append([]string(nil), compiledFeatures...)
	sort.Strings(feats)
	for _, f := range feats {
		fmt.Fprintf(w, "  %s\n", f)
	}
	if len(feats) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
}

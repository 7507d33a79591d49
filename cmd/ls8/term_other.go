//go:build !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd

package main

// isTerminal never detects a terminal here, so "-trace auto" is off.
func isTerminal(fd int) bool {
	return false
}

package main

import (
	"os"
	"os/signal"
	"syscall"

	dupescan "github.com/mattkeenan/dupescan/pkg"
)

// setupSignalHandler returns a channel that is closed on SIGINT or SIGTERM.
// The walker and hasher check it between entries and between read chunks.
func setupSignalHandler() <-chan struct{} {
	shutdown := make(chan struct{})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		signal.Stop(sigChan)
		dupescan.Warningf("received signal %v, stopping scan", sig)
		close(shutdown)
	}()

	return shutdown
}

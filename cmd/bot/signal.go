package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// WaitForShutdown blocks until SIGINT or SIGTERM arrives and returns it.
func WaitForShutdown() os.Signal {
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sc)

	sig := <-sc
	slog.Info("Shutdown signal received", "signal", sig.String())
	return sig
}

package main

import (
	"log/slog"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("Command execution failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

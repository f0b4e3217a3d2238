package main

import (
	"context"
	"os"
	"os/signal"
	"resetme/internal/app/consumers"
	"resetme/internal/app/deps"
	"syscall"
)

func main() {
	deps, shutdownDeps := deps.InitDeps()
	defer shutdownDeps()

	shutdownConsumers := consumers.InitConsumers(deps)
	defer shutdownConsumers()

	stopCh, closeCh := createChannel()
	defer closeCh()

	deps.Logger.Info(context.Background(), "Reset email worker has started.")
	<-stopCh
	deps.Logger.Info(context.Background(), "Reset email worker is stopping.")
}

func createChannel() (chan os.Signal, func()) {
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	return stopCh, func() {
		close(stopCh)
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	CustomizeHelp(rootCmd)
	err := Execute(ctx)
	stop()

	if err != nil {
		os.Exit(1)
	}
}

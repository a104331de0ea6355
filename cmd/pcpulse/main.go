package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd(newOptions()).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"produce-grader/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

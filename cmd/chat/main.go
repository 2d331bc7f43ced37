package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"lingobuddy/handler"
	"lingobuddy/internal/app"
)

func main() {
	ctx := context.Background()

	cfg, err := app.Load()
	if err != nil {
		slog.Error("failed to load configuration", "err", err)
		os.Exit(1)
	}

	svc, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to build chat service", "err", err)
		os.Exit(1)
	}

	h, err := handler.NewChatHandler(svc)
	if err != nil {
		slog.Error("failed to create chat handler", "err", err)
		os.Exit(1)
	}

	lambda.Start(h.Handle)
}

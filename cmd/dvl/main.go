package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"dvl/cli"
	"dvl/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Get().Debug().Err(err).Msg("Error loading .env file")
	}

	if err := cli.NewApp().Run(context.Background(), os.Args); err != nil {
		logger.Get().Error().Err(err).Msg("dvl failed")
		os.Exit(1)
	}
}

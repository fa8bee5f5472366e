package main

import (
	"github.com/sirupsen/logrus"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/app"
	"github.com/theonlykingpin/ApiBlogWithOTP/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	if err := app.Run(cfg); err != nil {
		logrus.Fatalf("app: %v", err)
	}
}

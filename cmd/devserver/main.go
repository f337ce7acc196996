package main

import (
	"context"

	"github.com/HYB-0225/nextkey/config"
	"github.com/HYB-0225/nextkey/internal/devserver"
	"github.com/HYB-0225/nextkey/internal/logger"
	"github.com/sirupsen/logrus"
)

func main() {
	// config comes from the -config flag
	cfg := config.MustLoadServer()

	if err := logger.Setup(cfg.Log.Level); err != nil {
		panic(err)
	}

	srv, closeLedger, err := devserver.Open(context.Background(), cfg.DevServer)
	if err != nil {
		logrus.Fatalf("dev server init error: %v", err)
	}
	defer closeLedger()

	if err := srv.Run(); err != nil {
		panic(err)
	}
}

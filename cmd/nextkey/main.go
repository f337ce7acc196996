package main

import (
	"os"

	"github.com/HYB-0225/nextkey/internal/cli"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := cli.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

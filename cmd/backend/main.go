package main

import (
	"orderledger/internal/api"

	"github.com/sirupsen/logrus"
)

func main() {
	logrus.Info("App start")
	api.StartServer()
	logrus.Info("App terminated")
}

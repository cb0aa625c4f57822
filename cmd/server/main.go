package main

import (
	"github.com/unet360/unet360/backend/internal/server"
	"github.com/unet360/unet360/backend/internal/util"
	"github.com/unet360/unet360/backend/pkg/logger"
	"github.com/unet360/unet360/backend/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
		JSON:  util.GetEnvString("LOG_FORMAT", "text") == "json",
	})
	logger.Init(consoleLogger)

	server.Init()
}

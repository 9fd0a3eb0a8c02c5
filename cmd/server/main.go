package main

import (
	"github.com/trialatlas/backend/internal/server"
	"github.com/trialatlas/backend/internal/util"
	"github.com/trialatlas/backend/pkg/logger"
	"github.com/trialatlas/backend/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}

package main

import (
	"os"

	"go.uber.org/zap"
)

var buildLogger = newLogger

func main() {
	if err := newApp(nil, os.Stdin, os.Stdout).Run(os.Args); err != nil {
		buildLogger(false).Fatal("command failed", zap.Error(err))
	}
}

func newLogger(verbose bool) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

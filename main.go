package main

import (
	"media-screensaver/internal/cli"
	"media-screensaver/internal/startup"
)

func main() {
	if err := cli.Execute(); err != nil {
		startup.LogFatal("%v", err)
	}
}

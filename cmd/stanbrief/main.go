package main

import (
	"stanbrief/cmd/cmd"
	"stanbrief/internal/logger"
)

func main() {
	logger.Init() // Initialize the logger
	cmd.Execute()
}

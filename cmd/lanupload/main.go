// filepath: cmd/lanupload/main.go
package main

import (
	"lanupload/internal/cli"

	// Import docs for Swagger
	_ "lanupload/docs"
)

// @title lanupload API
// @version 1.0.0
// @description Drop files onto a machine on the local network from any browser.
// @BasePath /
// @schemes http

func main() {
	// Delegate all execution to the CLI package
	cli.Execute()
}

package main

import "github.com/ivlev/quiz2video/internal/cli"

// version подставляется при сборке: -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cli.Execute(version)
}

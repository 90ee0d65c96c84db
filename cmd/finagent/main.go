package main

import (
	"finagent/internal/cli"
)

func main() {
	cli.Run()
}

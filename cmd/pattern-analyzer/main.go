package main

import "pattern-analyzer/src/handler/cli"

func main() {
	cli.Run()
}

package main

import "license-summary/internal/cli"

func main() {
	cli.Execute()
}

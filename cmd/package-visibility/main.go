package main

import "package-visibility/internal/cli"

func main() {
	cli.Execute()
}

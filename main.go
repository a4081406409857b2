package main

import "repoint/internal/cli"

func main() {
	cli.Execute()
}

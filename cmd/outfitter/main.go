package main

import "github.com/andrescamacho/outfitting-go/internal/adapters/cli"

func main() {
	cli.Execute()
}

package main

import "github.com/amterp/elysian/internal/cli"

func main() {
	cli.Run()
}

package main

import "github.com/mcoot/guestlist/internal/cli"

func main() {
	cli.Execute()
}

package main

import "bizdash/internal/cli"

func main() {
	cli.Execute()
}

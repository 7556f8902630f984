package main

import "github.com/relloyd/hotelpipe/cmd"

func main() {
	cmd.Execute()
}

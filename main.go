package main

import "github.com/papapumpkin/mcscoreboards/cmd"

func main() {
	cmd.Execute()
}

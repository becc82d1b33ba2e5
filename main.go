package main

import "golfsim/cmd"

func main() {
	cmd.Execute()
}

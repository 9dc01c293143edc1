package main

import "github.com/itsmostafa/gobf/cmd"

func main() {
	cmd.Execute()
}

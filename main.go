package main

import "github.com/lepinkainen/gutenshelf/cmd"

var execute = cmd.Execute

func main() {
	execute()
}

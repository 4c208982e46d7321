package main

import "github.com/harborlang/harbor/cmd"

var version = "v2.0.0"

func main() {
	cmd.Execute(version)
}

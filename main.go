package main

import "github.com/djcass44/indi-audit/cmd"

var version = "devel"

func main() {
	cmd.Execute(version)
}

package main

import "github.com/inkwell-labs/gamebook/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/cashplan-dev/cashplan/cmd"

func main() {
	cmd.Execute()
}

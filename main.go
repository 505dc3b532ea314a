package main

import "github.com/veloscope/veloscope-cli/cmd"

func main() {
	cmd.Execute()
}

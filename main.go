package main

import "github.com/agentic-research/depscope/cmd"

func main() {
	cmd.Execute()
}

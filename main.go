package main

import "github.com/redmcp/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/repohub/repohub/cmd"

func main() {
	cmd.Execute()
}

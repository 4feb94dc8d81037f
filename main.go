package main

import "github.com/strangelove-ventures/token-bridge-relayer/cmd"

func main() {
	cmd.Execute()
}

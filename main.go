package main

import "github.com/RyanBlaney/wavesmith/cmd"

func main() {
	cmd.Execute()
}

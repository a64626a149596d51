package main

import "github.com/Wanderer0074348/hlm/cmd"

func main() {
	cmd.Execute()
}

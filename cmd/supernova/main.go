package main

import "github.com/Galinha2/super-nova-2177/internal/cmd"

func main() {
	cmd.Execute()
}

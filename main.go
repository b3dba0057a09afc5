package main

import "github.com/moto-nrw/project-phoenix/cmd"

func main() {
	cmd.Execute()
}

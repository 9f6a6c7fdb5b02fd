package main

import "github.com/atelier-store/atelier/cmd/atelier/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/CraigKelly/gibbs/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/chriserin/epc/cmd"

func main() {
	cmd.Execute()
}

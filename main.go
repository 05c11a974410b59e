package main

import "github.com/encodeous/thaum/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/textwarden/anchor/cmd"

func main() {
	cmd.Execute()
}

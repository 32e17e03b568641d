package main

import "github.com/zinc-sig/dropsign/cmd"

func main() {
	cmd.Execute()
}

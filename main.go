package main

import "github.com/papapumpkin/newsrank/cmd"

func main() {
	cmd.Execute()
}

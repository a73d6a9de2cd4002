package main

import "github.com/naka-gawa/stale-stars/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/nfrund/bookreader/cmd/bookreader-cli/cmd"

func main() {
	cmd.Execute()
}

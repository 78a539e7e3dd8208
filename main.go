package main

import "github.com/theirongolddev/dealcast/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/theirongolddev/cashflow90/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/moneymap/moneytree/cmd"

func main() {
	cmd.Execute()
}

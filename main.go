package main

import "tabstat/cmd"

func main() {
	cmd.Execute()
}

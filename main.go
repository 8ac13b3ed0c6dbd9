package main

import "subdaap-sync/cmd"

func main() {
	cmd.Execute()
}

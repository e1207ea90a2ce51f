package main

import "warehouse-sync/cmd"

func main() {
	cmd.Execute()
}

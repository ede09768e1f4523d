package main

import "hellod/cmd"

func main() {
	cmd.Execute()
}

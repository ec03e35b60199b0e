package main

import "circle-route/cmd"

func main() {
	cmd.Execute()
}

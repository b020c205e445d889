package main

import "github.com/jsphweid/kalimbatab/cmd"

func main() {
	cmd.Execute()
}

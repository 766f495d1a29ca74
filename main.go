package main

import "categorization-service/cmd"

func main() {
	cmd.Execute()
}

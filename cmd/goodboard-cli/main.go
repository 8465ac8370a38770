package main

import "goodboard-backend/cmd/goodboard-cli/cmd"

func main() {
	cmd.Execute()
}

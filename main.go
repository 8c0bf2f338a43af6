package main

import "github.com/frahmantamala/civic-issue-tracker/cmd"

func main() {
	cmd.Execute()
}

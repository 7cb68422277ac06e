package main

import "github.com/oshokin/sqlite-ext-bundle/cmd/ext-bundle/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/iksnae/chatprep/cmd"

func main() {
	cmd.Execute()
}

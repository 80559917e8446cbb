package main

import "github.com/KaramelBytes/varsum/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/KaramelBytes/medfill/cmd"

func main() {
	cmd.Execute()
}

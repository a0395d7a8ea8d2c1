package main

import "rptconv/cmd"

func main() {
	cmd.Execute()
}

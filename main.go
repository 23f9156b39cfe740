package main

import "github.com/tanpawarit/Chative-Search-Assistant/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/fakeyudi/promptperfect/cmd"

func main() {
	cmd.Execute()
}

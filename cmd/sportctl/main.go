package main

import "github.com/SarvaniBalivada/sports-schedular/internal/cli"

func main() {
	cli.Execute()
}

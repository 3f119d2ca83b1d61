package main

import "github.com/aalvaropc/fitdemo/internal/cli"

func main() {
	cli.Execute()
}

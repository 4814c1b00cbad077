package main

import "github.com/aqasim81/sql-script-runner/internal/cli"

func main() {
	cli.Execute()
}

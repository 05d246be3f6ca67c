package main

import "github.com/mvp-joe/macrolens/internal/cli"

func main() {
	cli.Execute()
}

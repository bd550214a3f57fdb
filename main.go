package main

import (
	"os"

	"github.com/zjrosen/bbh/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}

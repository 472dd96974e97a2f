package main

import (
	"github.com/agencykit/runway/internal/cli"
)

func main() {
	cli.Execute()
}

package main

import (
	"os"

	"github.com/danielpatrickdp/support-triage/internal/cli"
)

func main() {
	os.Exit(int(cli.Run()))
}

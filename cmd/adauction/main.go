package main

import (
	"errors"
	"os"

	"github.com/cloudx-io/adauction/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, cmd.ErrReportInvalid) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}

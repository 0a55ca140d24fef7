package main

import (
	"fmt"
	"os"

	"github.com/mithrel/yprlog/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "yprlog:", err)
		os.Exit(1)
	}
}

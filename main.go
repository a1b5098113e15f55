package main

import (
	"fmt"
	"os"

	"github.com/xingh/bsn-modulestore/cmd"
	"github.com/xingh/bsn-modulestore/cmd/util"
)

func main() {
	if err := util.LoadDotenv(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	cmd.Execute()
}

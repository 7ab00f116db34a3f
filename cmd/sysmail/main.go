package main

import (
	"github.com/spf13/cobra"

	"github.com/zostay/sysmail/cmd/sysmail/cmd"
)

func main() {
	err := cmd.Execute()
	cobra.CheckErr(err)
}

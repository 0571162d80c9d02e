package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func main() {
	cmd := &cobra.Command{
		Use:   "changekit",
		Short: "changekit applies typed change sets to an embedded record store",
	}
	cmd.AddCommand(initCmd(), validateCmd())
	if err := cmd.Execute(); err != nil {
		fmt.Println(err)
	}
}

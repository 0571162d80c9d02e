package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/autom8ter/changekit"
	"github.com/spf13/cobra"
)

func validateCmd() *cobra.Command {
	var schemaPath string
	cmd := &cobra.Command{
		Use:   "validate [files...]",
		Short: "validate entity type definition files",
		RunE: func(_ *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				if err := filepath.Walk(schemaPath, func(path string, info os.FileInfo, err error) error {
					if err != nil {
						return err
					}
					if info.IsDir() {
						return nil
					}
					if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".json") {
						paths = append(paths, path)
					}
					return nil
				}); err != nil {
					return err
				}
			}
			var failed int
			for _, path := range paths {
				bits, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				if _, err := changekit.NewEntityType(bits); err != nil {
					failed++
					fmt.Printf("invalid: %s: %s\n", path, err.Error())
					continue
				}
				fmt.Printf("valid: %s\n", path)
			}
			if failed > 0 {
				return fmt.Errorf("%d invalid entity type definition(s)", failed)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&schemaPath, "path", "p", "./schema", "path to schema directory")
	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strataorm/strata/compiler/gen"
	"github.com/strataorm/strata/dialect/sql/schema"
)

var validatePath string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the relational schema of the XML mapping descriptors",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cfgFile)
		if err != nil {
			return err
		}
		schemas, err := loadSchemas(cmd.Context(), overlay(validatePath, cfg.Path), "")
		if err != nil {
			return err
		}
		g, err := gen.NewGraph(gen.Config{Schema: cfg.Schema}, schemas...)
		if err != nil {
			return err
		}
		tables, err := g.Tables()
		if err != nil {
			return err
		}
		result := schema.ValidateSchema(tables)
		fmt.Println(result.String())
		if result.HasErrors() {
			return fmt.Errorf("schema validation failed")
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validatePath, "path", "", "directory holding the XML mapping descriptors")
	rootCmd.AddCommand(validateCmd)
}

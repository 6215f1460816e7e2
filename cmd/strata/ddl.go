package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strataorm/strata/compiler/gen"
	"github.com/strataorm/strata/dialect"
	"github.com/strataorm/strata/dialect/sql/schema"
)

var (
	ddlPath    string
	ddlDialect string
)

var ddlCmd = &cobra.Command{
	Use:   "ddl",
	Short: "Print the dialect DDL of the XML mapping descriptors",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cfgFile)
		if err != nil {
			return err
		}
		name := overlay(ddlDialect, cfg.Dialect)
		if name == "" {
			name = dialect.Postgres
		}
		schemas, err := loadSchemas(cmd.Context(), overlay(ddlPath, cfg.Path), cfg.Cache)
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
		stmts, err := schema.Plan(name, tables...)
		if err != nil {
			return err
		}
		for _, stmt := range stmts {
			fmt.Printf("%s;\n", stmt)
		}
		return nil
	},
}

func init() {
	ddlCmd.Flags().StringVar(&ddlPath, "path", "", "directory holding the XML mapping descriptors")
	ddlCmd.Flags().StringVar(&ddlDialect, "dialect", "", "SQL dialect: postgres, mysql or sqlite (default: postgres)")
	rootCmd.AddCommand(ddlCmd)
}

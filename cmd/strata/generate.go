package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strataorm/strata/compiler/gen"
)

var (
	genPath    string
	genPackage string
	genTarget  string
	genSchema  string
	genCache   string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate Go table descriptors from XML mapping descriptors",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cfgFile)
		if err != nil {
			return err
		}
		schemas, err := loadSchemas(cmd.Context(), overlay(genPath, cfg.Path), overlay(genCache, cfg.Cache))
		if err != nil {
			return err
		}
		pkg := overlay(genPackage, cfg.Package)
		if pkg == "" {
			return fmt.Errorf("no package path given (set --package or the package config key)")
		}
		target := overlay(genTarget, cfg.Target)
		if target == "" {
			target = "."
		}
		err = gen.Generate(gen.Config{
			Package: pkg,
			Target:  target,
			Schema:  overlay(genSchema, cfg.Schema),
		}, schemas...)
		if err != nil {
			return err
		}
		fmt.Printf("wrote %s/%s (%d schemas)\n", target, gen.DescriptorsFile, len(schemas))
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVar(&genPath, "path", "", "directory holding the XML mapping descriptors")
	generateCmd.Flags().StringVar(&genPackage, "package", "", "Go package path of the generated descriptors")
	generateCmd.Flags().StringVar(&genTarget, "target", "", "output directory (default: current directory)")
	generateCmd.Flags().StringVar(&genSchema, "schema", "", "default database schema of the generated tables")
	generateCmd.Flags().StringVar(&genCache, "cache", "", "snapshot cache directory")
	rootCmd.AddCommand(generateCmd)
}

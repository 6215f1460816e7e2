package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/strataorm/strata/compiler/gen"
	"github.com/strataorm/strata/compiler/load"
	"github.com/strataorm/strata/compiler/load/xmlmap"
)

var (
	watchPath    string
	watchPackage string
	watchTarget  string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate table descriptors when XML mapping descriptors change",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cfgFile)
		if err != nil {
			return err
		}
		var (
			dir    = overlay(watchPath, cfg.Path)
			pkg    = overlay(watchPackage, cfg.Package)
			target = overlay(watchTarget, cfg.Target)
		)
		if dir == "" {
			return fmt.Errorf("no descriptor path given (set --path or the path config key)")
		}
		if pkg == "" {
			return fmt.Errorf("no package path given (set --package or the package config key)")
		}
		if target == "" {
			target = "."
		}
		fmt.Printf("watching %s\n", dir)
		return xmlmap.Watch(cmd.Context(), dir, func(schemas []*load.Schema, err error) error {
			if err != nil {
				// Report and keep watching. A half-saved descriptor
				// becomes valid on the next write.
				fmt.Fprintf(os.Stderr, "reload failed: %v\n", err)
				return nil
			}
			err = gen.Generate(gen.Config{
				Package: pkg,
				Target:  target,
				Schema:  cfg.Schema,
			}, schemas...)
			if err != nil {
				fmt.Fprintf(os.Stderr, "generate failed: %v\n", err)
				return nil
			}
			fmt.Printf("regenerated %d schemas\n", len(schemas))
			return nil
		})
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchPath, "path", "", "directory holding the XML mapping descriptors")
	watchCmd.Flags().StringVar(&watchPackage, "package", "", "Go package path of the generated descriptors")
	watchCmd.Flags().StringVar(&watchTarget, "target", "", "output directory (default: current directory)")
	rootCmd.AddCommand(watchCmd)
}

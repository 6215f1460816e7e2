// strata loads XML mapping descriptors, validates the resulting
// relational schema and emits dialect DDL or generated table
// descriptors.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "strata",
	Short: "Strata schema metadata and DDL toolkit",
	Long: `Strata loads entity schemas from XML mapping descriptors, binds them
into a relational metamodel and exports dialect-aware DDL or generated
Go table descriptors.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: strata.yaml)")
}

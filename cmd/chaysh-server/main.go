// cmd/chaysh-server/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"chaysh/internal/common/config"
)

func main() {
	root := &cobra.Command{
		Use:          "chaysh-server",
		Short:        "Product and manual search assistant backend",
		SilenceUsage: true,
	}

	root.AddCommand(serveCMD(), migrateCMD())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads path when given, otherwise the configs/ directory and environment.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

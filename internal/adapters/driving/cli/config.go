package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	configfile "github.com/registrar-labs/courserec/internal/adapters/driven/config/file"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit configuration",
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configfile.NewConfigStore(configDir)
		if err != nil {
			return err
		}

		val, ok := cfg.Get(args[0])
		if !ok {
			return fmt.Errorf("key %q not set", args[0])
		}
		cmd.Printf("%v\n", val)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configfile.NewConfigStore(configDir)
		if err != nil {
			return err
		}

		// Integers are stored typed so GetInt round-trips.
		var value any = args[1]
		if n, err := strconv.ParseInt(args[1], 10, 64); err == nil {
			value = n
		}

		if err := cfg.Set(args[0], value); err != nil {
			return err
		}
		cmd.Printf("%s = %v\n", args[0], value)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := configfile.NewConfigStore(configDir)
		if err != nil {
			return err
		}
		cmd.Println(cfg.Path())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/gordyrad/notereport/internal/config"
	"github.com/spf13/cobra"
)

var envSecretsFile string

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Inspect and manage the local secrets overlay",
	Long: `Reads and writes the JSON secrets file layered over the process
environment. Values in the file take priority over exported variables.`,
}

var envListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the effective configuration variables",
	RunE: func(cmd *cobra.Command, args []string) error {
		sec, err := config.LoadSecrets(envSecretsFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		for _, kv := range sec.Merged() {
			k, v, _ := strings.Cut(kv, "=")
			if strings.Contains(k, "KEY") && v != "" {
				v = mask(v)
			}
			fmt.Printf("%s=%s\n", k, v)
		}
		return nil
	},
}

var envGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Print the effective value of one variable",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sec, err := config.LoadSecrets(envSecretsFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		fmt.Println(sec.Get(args[0], ""))
		return nil
	},
}

var envSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Store a variable in the secrets file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sec, err := config.LoadSecrets(envSecretsFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		if err := sec.Set(args[0], args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		fmt.Printf("set %s\n", args[0])
		return nil
	},
}

func mask(v string) string {
	if len(v) <= 8 {
		return "********"
	}
	return v[:4] + "..." + v[len(v)-4:]
}

func init() {
	envCmd.PersistentFlags().StringVar(&envSecretsFile, "secrets-file", config.DefaultSecretsFile, "Path to the secrets file")
	envCmd.AddCommand(envListCmd, envGetCmd, envSetCmd)
	rootCmd.AddCommand(envCmd)
}

package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(loginCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login <email> <password>",
	Short: "Logs into EnrollMate and stores the session token.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		config := readConfig()
		client := apiClient(config)

		result, err := client.Login(cmd.Context(), args[0], args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}

		// json is valid json5, and the .local. file overrides the
		// committed config
		local, err := json.MarshalIndent(Config{
			Email:  result.Email,
			Token:  result.Token,
			UserId: result.UserId,
		}, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		err = os.WriteFile("enrollmate.local.json5", local, 0600)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}

		fmt.Printf("logged in as %s, token expires %s\n", result.Email, result.ExpiresAt)
	},
}

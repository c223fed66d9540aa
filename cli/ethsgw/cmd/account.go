package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tunnckoCore/ethsgw"
)

var accountCmd = &cobra.Command{
	Use:   "account [mnemonic or 0x private key]",
	Short: "print an account, a new one without a seed",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seed := ""
		if len(args) > 0 {
			seed = args[0]
		}
		acc, err := ethsgw.CreateAccount(seed)
		if err != nil {
			return err
		}
		by, err := json.MarshalIndent(acc, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(by))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(accountCmd)
}

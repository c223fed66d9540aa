package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
)

// stopCmd represents the stop command
var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "stop a gateway started with start -d",
	RunE: func(cmd *cobra.Command, args []string) error {
		strb, err := os.ReadFile(pidFile)
		if err != nil {
			fmt.Printf("Stop server failed, err: %v\n", err)
			return nil
		}
		command := exec.Command("kill", strings.TrimSpace(string(strb)))
		if err := command.Run(); err != nil {
			return err
		}
		if err := os.Remove(pidFile); err != nil {
			return err
		}
		fmt.Println("ethsgw stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
}

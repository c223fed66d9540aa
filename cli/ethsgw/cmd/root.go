package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tunnckoCore/ethsgw/common"
	"github.com/tunnckoCore/ethsgw/schema"
)

var cfgFile string
var cfg schema.Config

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "ethsgw",
	Short:   "ethscriptions api gateway",
	Long:    `ethsgw proxies the ethscriptions index with identity resolution, banned content restoration and collection snapshots`,
	Version: "v1.0.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "cfg", "", "cfg file (default is ./ethsgw.yaml)")
}

// initConfig reads in cfg file and ENV variables if set. A missing file
// leaves the defaults.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("ethsgw")
	}

	viper.SetEnvPrefix("ETHSGW")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		panic(err)
	} else {
		fmt.Fprintln(os.Stderr, "can not find config file, using defaults")
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		panic(err)
	}
	cfg.SetDefaults()
	common.SetLogLevel(cfg.LogLevel)
}

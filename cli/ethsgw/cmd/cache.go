package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tunnckoCore/ethsgw"
	"github.com/tunnckoCore/ethsgw/rawdb"
	"github.com/tunnckoCore/ethsgw/schema"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "inspect the permanent caches",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()
		for _, bucket := range schema.AllBuckets {
			n, err := store.Count(bucket)
			if err != nil {
				return err
			}
			fmt.Printf("%s\t%d\n", bucket, n)
		}
		return nil
	},
}

var clearCacheCmd = &cobra.Command{
	Use:   "clear",
	Short: "delete every resolved identity and restored content entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()
		count, err := store.ClearAll()
		if err != nil {
			return err
		}
		fmt.Printf("deleted %d entries\n", count)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(clearCacheCmd)
	rootCmd.AddCommand(cacheCmd)
}

func openStore() (*ethsgw.Store, error) {
	db, err := rawdb.Open(cfg)
	if err != nil {
		return nil, err
	}
	return ethsgw.NewStore(db), nil
}

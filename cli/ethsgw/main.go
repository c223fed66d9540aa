package main

import "github.com/tunnckoCore/ethsgw/cli/ethsgw/cmd"

func main() {
	cmd.Execute()
}

package main

import (
	"github.com/emberchain/blockchain/app/wallet/cli/cmd"
)

func main() {
	cmd.Execute()
}

package main

import (
	"github.com/leakscout/leakscout/internal/cmd"
	"github.com/leakscout/leakscout/internal/cmd/common"
)

func main() {
	common.Run(cmd.NewRootCmd())
}

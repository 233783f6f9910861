// Command coredev identifies the core developers of a Git repository over time.
package main

import (
	"os"

	"github.com/huangsam/coredev/cmd"
	"github.com/huangsam/coredev/internal/contract"
	"github.com/huangsam/coredev/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()
	iocache.CloseStores()
	if err != nil {
		contract.Logger().Error(err)
		os.Exit(1)
	}
}

// main is the entry point for the repohealth CLI.
package main

import (
	"github.com/huangsam/repohealth/cmd"
	"github.com/huangsam/repohealth/internal/contract"
	"github.com/huangsam/repohealth/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)
	err := cmd.Execute()
	iocache.CloseCaching()
	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}

// Command ddiscovery lists registered services filtered by type and pool.
package main

import (
	"context"
	"os"

	"github.com/kbukum/sdiscovery/cli"
)

func main() {
	os.Exit(cli.NewDDiscovery(cli.Options{}).Run(context.Background(), os.Args[1:]))
}

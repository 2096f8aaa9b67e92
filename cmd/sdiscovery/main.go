// Command sdiscovery shows, adds and deletes static service announcements.
package main

import (
	"context"
	"os"

	"github.com/kbukum/sdiscovery/cli"
)

func main() {
	os.Exit(cli.NewSDiscovery(cli.Options{}).Run(context.Background(), os.Args[1:]))
}

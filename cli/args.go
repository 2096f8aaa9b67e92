package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/sdiscovery/errors"
)

const argHost = "hostname or hostname alias"

func errMissing(what string) error {
	return errors.Validation("Missing argument --" + what)
}

func errExtra(items []string) error {
	var b strings.Builder
	b.WriteString("Extra options:")
	for _, item := range items {
		b.WriteString("\n   ")
		b.WriteString(item)
	}
	return errors.Validation(b.String())
}

// positional accepts exactly the named positional arguments, reporting
// the first missing one by name and any surplus as extra options.
func positional(names ...string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) < len(names) {
			return errMissing(names[len(args)])
		}
		if len(args) > len(names) {
			return errExtra(args[len(names):])
		}
		return nil
	}
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/kbukum/sdiscovery/discovery"
	"github.com/kbukum/sdiscovery/errors"
	"github.com/kbukum/sdiscovery/util"
)

// Output formats.
const (
	OutputJSON  = "JSON"
	OutputID    = "ID"
	OutputTable = "TABLE"
)

// parseOutput normalizes an -o value against the formats a command allows.
func parseOutput(value string, allowed ...string) (string, error) {
	format := strings.ToUpper(strings.TrimSpace(value))
	if !util.Contains(allowed, format) {
		return "", errors.InvalidArgument("--output", fmt.Sprintf("must be one of %s, got %q", strings.Join(allowed, "|"), value))
	}
	return format, nil
}

func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// writeServices renders records in format. Records without an id are
// skipped by the ID format.
func writeServices(w io.Writer, format string, services []discovery.ServiceRecord) error {
	switch format {
	case OutputID:
		for _, s := range services {
			if s.ID == nil {
				continue
			}
			if _, err := fmt.Fprintln(w, *s.ID); err != nil {
				return err
			}
		}
		return nil
	case OutputTable:
		writeTable(w, services)
		return nil
	default:
		return writeJSON(w, services)
	}
}

func writeTable(w io.Writer, services []discovery.ServiceRecord) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "TYPE", "POOL", "ENVIRONMENT", "LOCATION", "PROPERTIES"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	for _, s := range services {
		table.Append([]string{
			util.Deref(s.ID),
			s.Type,
			s.Pool,
			s.Environment,
			util.Deref(s.Location),
			formatProperties(s.Properties),
		})
	}
	table.Render()
}

func formatProperties(props map[string]string) string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := util.Map(keys, func(k string) string { return k + "=" + props[k] })
	return strings.Join(pairs, " ")
}

package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/kbukum/sdiscovery/errors"
	"github.com/kbukum/sdiscovery/util"
)

// DefaultAliasFile is the alias file name looked up in the home directory.
const DefaultAliasFile = ".discoveryrc"

type aliasOptions struct {
	path string
}

// AliasOption configures ResolveHosts.
type AliasOption func(*aliasOptions)

// WithAliasFile reads aliases from path instead of ~/.discoveryrc.
func WithAliasFile(path string) AliasOption {
	return func(o *aliasOptions) { o.path = path }
}

// ResolveHosts expands arg into an endpoint list. If arg names an alias the
// alias value is used, otherwise arg itself. Either way the value is split on
// commas and trimmed. A missing alias file is not an error.
func ResolveHosts(arg string, opts ...AliasOption) ([]string, error) {
	o := aliasOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			o.path = filepath.Join(home, DefaultAliasFile)
		}
	}

	aliases, err := LoadAliases(o.path)
	if err != nil {
		return nil, err
	}

	value := arg
	if v, ok := aliases[strings.ToLower(strings.TrimSpace(arg))]; ok {
		value = v
	}
	hosts := util.SplitList(value, ",")
	if len(hosts) == 0 {
		return nil, errors.InvalidConfig("Missing argument hostname or hostname alias")
	}
	return hosts, nil
}

// LoadAliases reads `name = url1, url2` lines from path. Names are
// case-insensitive and returned lowercased. Values are taken verbatim: `$`
// is not expanded and `#` does not start a comment. An empty path or a file
// that does not exist yields no aliases.
func LoadAliases(path string) (map[string]string, error) {
	aliases := map[string]string{}
	if path == "" {
		return aliases, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return aliases, nil
		}
		return nil, errors.InvalidConfig("unable to read alias file " + path).WithCause(err)
	}

	v := viper.New()
	v.SetConfigType("env")
	if err := v.ReadConfig(bytes.NewReader(quoteAliasValues(raw))); err != nil {
		return nil, errors.InvalidConfig("unable to read alias file " + path).WithCause(err)
	}
	for _, k := range v.AllKeys() {
		aliases[k] = v.GetString(k)
	}
	return aliases, nil
}

// quoteAliasValues single-quotes every bare value so the env codec keeps it
// literal. Comment lines, lines without '=', already quoted values and values
// containing a single quote are left alone.
func quoteAliasValues(raw []byte) []byte {
	lines := strings.Split(string(raw), "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		key, value, ok := strings.Cut(trimmed, "=")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" || value[0] == '"' || strings.Contains(value, "'") {
			continue
		}
		lines[i] = strings.TrimSpace(key) + "='" + value + "'"
	}
	return []byte(strings.Join(lines, "\n"))
}

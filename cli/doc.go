// Package cli implements the sdiscovery and ddiscovery command-line tools.
//
//	sdiscovery show   alias|URL [-o JSON|ID|TABLE]
//	sdiscovery add    alias|URL [-o JSON|ID] (-e ENV -t TYPE -p POOL [-l LOC] [-Dkey=value]... | --JSON raw | --JSONFile path|-)
//	sdiscovery delete alias|URL ID
//	ddiscovery        alias|URL [--type TYPE] [--pool POOL]
//
// Hosts are registry base URLs, comma separated, or an alias from
// ~/.discoveryrc.
package cli

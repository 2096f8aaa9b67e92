// Package config loads the registry client configuration.
//
// LoadClientConfig reads an optional YAML file and .env file through viper,
// binds environment variables onto nested keys and falls back to the
// DISCOVERY_URLS variable for the endpoint list:
//
//	cfg, err := config.LoadClientConfig("sdiscovery")
//	if err != nil {
//	    return err
//	}
//
// ResolveHosts turns a command-line host argument into an endpoint list,
// expanding aliases defined in ~/.discoveryrc:
//
//	# ~/.discoveryrc
//	prod = http://discovery-1:8080, http://discovery-2:8080
package config

// Package security holds the TLS settings used when talking to registry
// endpoints served over https.
//
//	cfg := security.TLSConfig{CAFile: "/etc/discovery/ca.pem"}
//	tlsConfig, err := cfg.Build()
package security

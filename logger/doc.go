// Package logger provides structured logging for the registry client and its
// command-line tools using zerolog.
//
// It supports JSON and console output, level configuration (including the
// numeric verbosity scale used by the CLI), component-scoped loggers and
// request-id propagation through context.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&cfg, "sdiscovery").WithComponent("discovery")
//	log.Debug("Get Request", logger.Fields("url", u))
package logger

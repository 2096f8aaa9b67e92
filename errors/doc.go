// Package errors provides the structured error type shared by the registry
// client, its transport and its command-line tools. Every error the client
// surfaces to callers is an *AppError carrying a machine-readable code.
package errors

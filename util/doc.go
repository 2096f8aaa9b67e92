// Package util provides small generic helpers shared by the registry client
// and its command-line tools: optional-value pointers, slice filtering and
// comma-separated list parsing.
package util

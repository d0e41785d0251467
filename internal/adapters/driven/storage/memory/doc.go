// Package memory provides in-memory implementations of driven ports.
// They back --no-history runs and keep service tests free of disk I/O.
package memory

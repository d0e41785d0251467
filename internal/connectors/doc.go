// Package connectors provides the sources the batch pipeline reads CAD
// assemblies from. Each connector knows how to enumerate source documents
// in one kind of location (the local filesystem today).
package connectors

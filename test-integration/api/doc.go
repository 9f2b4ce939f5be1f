// Package integration provides integration tests for the wordfinder API server.
// These tests start the real server on a local port and drive the search and
// session endpoints over HTTP.
package integration

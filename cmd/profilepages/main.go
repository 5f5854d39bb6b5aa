// Package main is the entry point for the profile pages service. The
// serve subcommand runs the HTTP API; migrate, reconcile and sync are
// one-shot operator commands against the same database.
package main

func main() {
	Execute()
}

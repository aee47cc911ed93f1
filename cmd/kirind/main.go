// Command kirind runs the LDAPv3 protocol engine behind a TCP (and
// optionally TLS) listener, with a minimal built-in Handler that
// accepts anonymous binds, returns empty search results, and refuses
// everything else. Real deployments
// are expected to link their own Handler against internal/engine and
// build their own binary; kirind exists to exercise the engine
// end-to-end and as a template for that binary.
package main

func main() {
	Execute()
}

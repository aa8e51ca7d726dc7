// Package schema defines the wire representation of compiled results.
//
// Domain automata keep their states and edges unexported; the types here
// flatten them into plain, ordered lists that marshal the same way to JSON
// and YAML. Everything that leaves the process (stores, HTTP, MCP, CLI
// export) goes through this package, and everything read back is validated
// before it is turned into domain values again:
//
//	data, err := schema.EncodeResult(res, schema.FormatYAML)
//	...
//	back, err := schema.DecodeResult(data, schema.FormatYAML)
package schema

/*
Package ports defines the driven ports (interfaces) of the regfsm engine.

These interfaces decouple compilation from storage, so the same engine can
keep results in process memory or in Redis.

# Key Interfaces

  - ResultStore: persists compiled results by ID.

RunResultStoreContract is a reusable test suite every ResultStore adapter
runs against itself.
*/
package ports

// Package harness replays contact book scenarios described in YAML.
//
// A scenario is a list of store operations (create, update, delete, list,
// backup_local, backup_remote) with the outcome each one should produce,
// followed by assertions on the final file, backups and uploaded objects.
//
// Every run is isolated: a fresh in-memory filesystem, a fixed clock pinned
// at the scenario's start time, and an in-memory object store. Identical
// scenarios therefore produce byte-identical traces, which RunWithGolden
// compares against testdata/golden/<name>.golden.
//
// Example:
//
//	name: update_rejects_bad_phone
//	description: An invalid phone leaves the stored phone unchanged
//	steps:
//	  - op: create
//	    args: {name: Alice, email: alice@x.com, phone: "01012345678", address: Cairo}
//	  - op: update
//	    args: {name: Alice, field: phone, value: "0001"}
//	    expect: invalid_phone
//	assertions:
//	  - type: rows
//	    rows:
//	      - [Alice, alice@x.com, "01012345678", Cairo, "2024-03-07 09:30:00"]
package harness

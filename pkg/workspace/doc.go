// Package workspace implements the atelier workspace engine: building a
// full workspace tree from the template store and instantiating client
// members into an existing workspace. Member name and port uniqueness are
// workspace-wide invariants derived by scanning the members directory on
// every operation; there is no registry beyond the filesystem itself.
package workspace

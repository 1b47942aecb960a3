// Package template holds the workspace template payload as a read-only,
// content-addressed blob store. Opaque payload files (manifests, sources,
// styling) are served byte-for-byte; files that are rewritten per member
// (the environment file) are exposed as parameterized text templates.
package template

// Package pkg holds the pandoradep libraries.
//
// Data flows leaf to root:
//
//	package.xml files ── [manifest] ──► declarations
//	repos.yml ── [registry] ──► snapshot ──► ownership index
//	declarations + index ── [deps] ──► one record per repository
//	records ── [checkout] / [render] ──► rosinstall, git URLs, DOT, SVG
//
// [deps] is the resolution engine: it folds declarations into records under
// a strict or permissive conflict policy and fills missing versions with the
// default branch. The other packages feed it or consume its result:
//
//   - [manifest]: finds catkin packages and reads their dependencies
//   - [registry]: decodes, fetches, builds and edits repos.yml snapshots
//   - [cache]: file, Redis and null stores for downloaded registries
//   - [config]: TOML configuration with environment overrides
//   - [vcs]: git clone and registry publishing
//   - [errors]: coded errors shared by all packages
//   - [observability]: hooks for registry fetches and resolution runs
package pkg

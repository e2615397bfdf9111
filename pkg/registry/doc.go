// Package registry loads the PANDORA registry snapshot (repos.yml) and
// answers which repository owns a package.
//
// # Snapshot
//
// A [Snapshot] maps repository names to the packages they own:
//
//	pandora_vision:
//	  - pandora_vision_hole
//	  - pandora_vision_victim
//	pandora_common:
//	  - pandora_common_msgs
//
// It is fetched once per run with [Client.Fetch] (or read with [LoadFile])
// and treated as read-only afterwards.
//
// # Ownership
//
// [NewIndex] inverts the snapshot so lookups are O(1). A package listed under
// two repositories makes the lookup undefined, so index construction fails
// with AMBIGUOUS_OWNERSHIP instead of picking one.
package registry

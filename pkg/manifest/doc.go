// Package manifest discovers local catkin packages and reads their declared
// dependencies.
//
// [Find] walks a workspace for package.xml files and [Catkin] decodes them.
// Every dependency tag is understood: build_depend and buildtool_depend are
// build dependencies, run_depend and exec_depend are run dependencies, and
// depend counts as both. A version_eq attribute pins the dependency to that
// branch or tag; range attributes are not checkout refs and are ignored.
//
// [Declarations] flattens packages into [deps.Declaration] values in the
// order the resolver expects: package discovery order, then build
// dependencies before run dependencies.
package manifest

// Package manifest holds the set of dependencies a build script may look up.
//
// Specs come from "NAME=VERSION" command-line values ([ParseSpec]) and from
// YAML manifest files ([Load]). Versions are strict semantic versions.
// Lookups are exact by name; [Suggest] only orders names for diagnostics.
package manifest

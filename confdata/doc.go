// Package confdata provides the configuration_data value that build scripts
// fill in and templates read.
//
// A [Data] is an insertion-ordered map from names to [Entry] values. It is
// also a Starlark value: scripts index it (conf["K"]), assign to it
// (conf["K"] = v), test membership ("K" in conf), iterate its keys, and call
// its methods (set, set10, set_quoted, get, get_unquoted, has, keys,
// merge_from).
//
// Reads and writes follow borrow rules. Any write attempted while a read is
// in progress on the same Data fails with [ErrMutationDuringIteration], so
//
//	for k in conf:
//	    conf.set(k + "_COPY", 1)
//
// is an error rather than undefined behavior.
package confdata

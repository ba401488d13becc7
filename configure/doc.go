// Package configure renders generated headers from templates.
//
// Templates are processed one line at a time against a
// [confdata.Snapshot]:
//
//	#cmakedefine NAME          → #define NAME <value> | #define NAME | /* #undef NAME */
//	#cmakedefine NAME @KEY@    → the same, for KEY
//	#cmakedefine01 NAME        → #define NAME 1 | #define NAME 0
//	KEY                        → the value of KEY, when KEY is configured
//
// All other lines are copied unchanged.
package configure

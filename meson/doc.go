// Package meson parses the Meson build-description language into a concrete
// syntax tree.
//
// The accepted grammar covers statements (function calls, assignments with
// "=" and "+=", if/elif/else, foreach, break, continue), list and dictionary
// literals, strings, numbers, booleans, member access, subscripts, and
// unary, binary, and ternary expressions. Comments are kept in the tree.
//
//	root, err := meson.Parse(ctx, src)
//	if err != nil {
//		return err // matches meson.ErrSyntax
//	}
//	fmt.Println(root.SExpr())
package meson

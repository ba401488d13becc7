package toolchain

import (
	"fmt"
	"strings"
)

// Probe program templates. Each is a complete translation unit.

func hasTypeSource(sym, prefix string) string {
	return fmt.Sprintf(`%s
int main(void) {
    (void) sizeof(%s);
    return 0;
}
`, prefix, sym)
}

func hasHeaderSource(header, prefix string) string {
	return fmt.Sprintf(`%[2]s
#ifdef __has_include
    #if !__has_include("%[1]s")
    #error "Header '%[1]s' could not be found"
    #endif
#else
    #include <%[1]s>
#endif
`, header, prefix)
}

func hasHeaderSymbolSource(header, sym, prefix string) string {
	return fmt.Sprintf(`%[3]s
#include <%[1]s>
int main(void) {
    /* If it's not defined as a macro, try to use as a symbol */
    #ifndef %[2]s
        %[2]s;
    #endif
    return 0;
}
`, header, sym, prefix)
}

func hasMemberSource(typ, member, prefix string) string {
	return fmt.Sprintf(`%[3]s
int main(void) {
    %[1]s foo;
    (void) ( foo.%[2]s );
    (void) foo;
    return 0;
}
`, typ, member, prefix)
}

func sizeofSource(sym, prefix string) string {
	return fmt.Sprintf(`%s
#include <stddef.h>
#include <stdio.h>
int main(void) {
    printf("%%ld", (long)(sizeof(%s)));
    return 0;
}
`, prefix, sym)
}

// supportedArgumentSource is compiled once per candidate flag.
const supportedArgumentSource = "extern int i;\nint i;\n"

// linkSource is linked against a candidate library.
const linkSource = "int main(void) { return 0; }\n"

// hasInclude reports whether prefix pulls in any header.
func hasInclude(prefix string) bool {
	return strings.Contains(prefix, "#include")
}

// stubGuard fails compilation for functions the C library declares but
// implements only as ENOSYS stubs.
func stubGuard(fn string) string {
	return fmt.Sprintf(`
#if defined __stub_%[1]s || defined __stub___%[1]s
fail fail fail this function is not going to work
#endif
`, fn)
}

// hasFunctionSource returns the primary has_function program.
//
// With an #include in prefix, the declared prototype is used and the
// function's address is taken. Otherwise the function is redeclared with a
// dummy prototype and called.
func hasFunctionSource(fn, prefix string) string {
	var sb strings.Builder

	if hasInclude(prefix) {
		fmt.Fprintf(&sb, "%s\n#include <limits.h>\n", prefix)
		sb.WriteString(stubGuard(fn))
		fmt.Fprintf(&sb, `
int main(void) {
    void *a = (void*) &%[1]s;
    long long b = (long long) a;
    return (int) b;
}
`, fn)

		return sb.String()
	}

	fmt.Fprintf(&sb, `
#define %[1]s meson_disable_define_of_%[1]s
%[2]s
#include <limits.h>
#undef %[1]s
`, fn, prefix)
	sb.WriteString(stubGuard(fn))
	fmt.Fprintf(&sb, `
#ifdef __cplusplus
extern "C"
#endif
char %[1]s (void);

int main(void) {
    return %[1]s ();
}
`, fn)

	return sb.String()
}

// hasBuiltinSource returns the fallback has_function program that detects
// functions implemented as compiler builtins.
func hasBuiltinSource(fn, prefix string) string {
	builtin := "__builtin_"
	isBuiltin := strings.HasPrefix(fn, builtin)

	if isBuiltin {
		builtin = ""
	}

	return fmt.Sprintf(`%[2]s
int main(void) {
#if !%[4]d && !defined(%[1]s) && !%[5]d
    #error "No definition for %[3]s%[1]s found in the prefix"
#endif

#ifdef __has_builtin
    #if !__has_builtin(%[3]s%[1]s)
        #error "%[3]s%[1]s not found"
    #endif
#elif ! defined(%[1]s)
    %[3]s%[1]s;
#endif
    return 0;
}
`, fn, prefix, builtin, btoi(!hasInclude(prefix)), btoi(isBuiltin))
}

func btoi(b bool) int {
	if b {
		return 1
	}

	return 0
}

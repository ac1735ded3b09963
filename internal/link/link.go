// Package link best-effort shells out to a C compiler and strip(1) to
// turn an emitted object file into a stripped executable, the way
// original_source/src/main.rs's link_object_file/strip_executable shell
// out to clang via shell::run_shell_command. Unlike the original, neither
// step is fatal if the tool is missing: object emission and linking are
// genuinely external collaborators per spec §1, and the core's job ends
// at producing the residual program lowering consumes.
package link

import (
	"fmt"
	"os/exec"
)

// Result reports what link actually managed to do, so a caller can
// explain to the user why no executable appeared.
type Result struct {
	Linked   bool
	Stripped bool
	Skipped  []string // tool names that were not found on PATH
}

// ExecutableName reproduces the original's executable_name: "foo.bf"
// becomes "foo", "foo_bar.b" becomes "foo_bar", and a relative path keeps
// only the final component's stem.
func ExecutableName(bfPath string) string {
	base := bfPath
	for i := len(bfPath) - 1; i >= 0; i-- {
		if bfPath[i] == '/' {
			base = bfPath[i+1:]
			break
		}
	}

	dot := -1
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '.' {
			dot = i
			break
		}
	}
	if dot <= 0 {
		return base
	}
	return base[:dot]
}

// findCompiler finds a C compiler on PATH, preferring clang, and falling
// back to cc.
func findCompiler() (string, bool) {
	for _, name := range []string{"clang", "cc"} {
		if path, err := exec.LookPath(name); err == nil {
			return path, true
		}
	}
	return "", false
}

// Link invokes a C compiler to link objectPath into executablePath, then
// strip(1) to remove symbols. targetTriple, if non-empty, is forwarded as
// "-target". Missing tools are reported in Result.Skipped rather than
// returned as an error.
func Link(objectPath, executablePath, targetTriple string) (Result, error) {
	var result Result

	compiler, ok := findCompiler()
	if !ok {
		result.Skipped = append(result.Skipped, "clang/cc")
		return result, nil
	}

	args := []string{objectPath, "-o", executablePath}
	if targetTriple != "" {
		args = []string{objectPath, "-target", targetTriple, "-o", executablePath}
	}

	if err := run(compiler, args); err != nil {
		return result, fmt.Errorf("linking %s: %w", executablePath, err)
	}
	result.Linked = true

	if path, err := exec.LookPath("strip"); err == nil {
		if err := run(path, []string{"-s", executablePath}); err != nil {
			return result, fmt.Errorf("stripping %s: %w", executablePath, err)
		}
		result.Stripped = true
	} else {
		result.Skipped = append(result.Skipped, "strip")
	}

	return result, nil
}

func run(name string, args []string) error {
	cmd := exec.Command(name, args...)
	return cmd.Run()
}

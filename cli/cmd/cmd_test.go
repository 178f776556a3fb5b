package cmd

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

// redirectStdin replaces os.Stdin with a pipe carrying content for the
// duration of the test.
func redirectStdin(t *testing.T, content string) {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}

	oldStdin := os.Stdin
	os.Stdin = r

	t.Cleanup(func() { os.Stdin = oldStdin })

	go func() {
		defer w.Close()
		io.WriteString(w, content)
	}()
}

func TestWithSourceFilesEmpty(t *testing.T) {
	ctx := WithSourceFiles(t.Context(), nil)

	if reader := SourceFilesFrom(ctx); reader != nil {
		t.Error("WithSourceFiles(nil) should store nil reader")
	}

	ctx = WithSourceFiles(t.Context(), []string{})

	if reader := SourceFilesFrom(ctx); reader != nil {
		t.Error("WithSourceFiles([]) should store nil reader")
	}
}

func TestWithSourceFilesSingleFile(t *testing.T) {
	path := writeTempFile(t, "input.axp", "hello world")

	ctx := WithSourceFiles(t.Context(), []string{path})

	reader := SourceFilesFrom(ctx)
	if reader == nil {
		t.Fatal("expected non-nil reader for valid file")
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("reading from source files: %v", err)
	}

	if string(data) != "hello world" {
		t.Errorf("got %q, want %q", string(data), "hello world")
	}
}

func TestWithSourceFilesMultipleFiles(t *testing.T) {
	dir := t.TempDir()

	file1 := filepath.Join(dir, "file1.axp")
	file2 := filepath.Join(dir, "file2.axp")

	if err := os.WriteFile(file1, []byte("first"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(file2, []byte("second"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx := WithSourceFiles(t.Context(), []string{file1, file2})

	reader := SourceFilesFrom(ctx)
	if reader == nil {
		t.Fatal("expected non-nil reader")
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("reading from source files: %v", err)
	}

	if string(data) != "firstsecond" {
		t.Errorf("got %q, want %q", string(data), "firstsecond")
	}
}

func TestWithSourceFilesDuplicatePaths(t *testing.T) {
	path := writeTempFile(t, "input.axp", "unique")

	ctx := WithSourceFiles(t.Context(), []string{path, path, path})

	reader := SourceFilesFrom(ctx)
	if reader == nil {
		t.Fatal("expected non-nil reader")
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("reading from source files: %v", err)
	}

	// Listed three times, read once.
	if string(data) != "unique" {
		t.Errorf("got %q, want %q", string(data), "unique")
	}
}

func TestWithSourceFilesRelativeAbsoluteDuplicates(t *testing.T) {
	dir := t.TempDir()

	filename := "input.axp"
	absPath := filepath.Join(dir, filename)

	if err := os.WriteFile(absPath, []byte("content"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Chdir(dir)

	ctx := WithSourceFiles(t.Context(), []string{filename, absPath})

	reader := SourceFilesFrom(ctx)
	if reader == nil {
		t.Fatal("expected non-nil reader")
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("reading from source files: %v", err)
	}

	if string(data) != "content" {
		t.Errorf("got %q, want %q (file should only be read once)",
			string(data), "content")
	}
}

func TestWithSourceFilesSymlinkDuplicates(t *testing.T) {
	dir := t.TempDir()

	realFile := filepath.Join(dir, "real.axp")
	if err := os.WriteFile(realFile, []byte("symlinked"), 0o644); err != nil {
		t.Fatal(err)
	}

	symlink := filepath.Join(dir, "link.axp")
	if err := os.Symlink(realFile, symlink); err != nil {
		t.Fatal(err)
	}

	ctx := WithSourceFiles(t.Context(), []string{realFile, symlink})

	reader := SourceFilesFrom(ctx)
	if reader == nil {
		t.Fatal("expected non-nil reader")
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("reading from source files: %v", err)
	}

	if string(data) != "symlinked" {
		t.Errorf("got %q, want %q (file should only be read once)",
			string(data), "symlinked")
	}
}

func TestWithSourceFilesStdinLast(t *testing.T) {
	path := writeTempFile(t, "input.axp", "file")

	redirectStdin(t, "stdin")

	// Stdin is listed first but must still be read last.
	ctx := WithSourceFiles(t.Context(), []string{stdinSource, path})

	reader := SourceFilesFrom(ctx)
	if reader == nil {
		t.Fatal("expected non-nil reader")
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("reading from source files: %v", err)
	}

	if string(data) != "filestdin" {
		t.Errorf("got %q, want %q (stdin should be last)",
			string(data), "filestdin")
	}
}

func TestWithSourceFilesMultipleStdinCollapsed(t *testing.T) {
	redirectStdin(t, "stdin-once")

	ctx := WithSourceFiles(t.Context(), []string{"-", "-", "-"})

	reader := SourceFilesFrom(ctx)
	if reader == nil {
		t.Fatal("expected non-nil reader")
	}

	if reader.Stdin() == nil {
		t.Error("expected Stdin() to report a stdin source")
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("reading from source files: %v", err)
	}

	if string(data) != "stdin-once" {
		t.Errorf("got %q, want %q (stdin should only be read once)",
			string(data), "stdin-once")
	}
}

func TestWithSourceFilesNonexistentFile(t *testing.T) {
	path := writeTempFile(t, "input.axp", "exists")

	ctx := WithSourceFiles(t.Context(), []string{
		"/nonexistent/path/file.axp",
		path,
		"/another/nonexistent.axp",
	})

	reader := SourceFilesFrom(ctx)
	if reader == nil {
		t.Fatal("expected non-nil reader when at least one file exists")
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("reading from source files: %v", err)
	}

	if string(data) != "exists" {
		t.Errorf("got %q, want %q", string(data), "exists")
	}
}

func TestWithSourceFilesAllNonexistent(t *testing.T) {
	ctx := WithSourceFiles(t.Context(), []string{
		"/nonexistent/path/file1.axp",
		"/nonexistent/path/file2.axp",
	})

	if reader := SourceFilesFrom(ctx); reader != nil {
		t.Error("expected nil reader when all files are nonexistent")
	}
}

func TestOpenSourceContextPrecedence(t *testing.T) {
	path := writeTempFile(t, "input.axp", "from-context")

	ctx := WithSourceFiles(t.Context(), []string{path})

	// The positional source loses against the context reader.
	r, done, err := openSource(ctx, "/nonexistent/positional.axp")
	if err != nil {
		t.Fatalf("openSource failed: %v", err)
	}
	defer done()

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("reading source: %v", err)
	}

	if string(data) != "from-context" {
		t.Errorf("got %q, want %q", string(data), "from-context")
	}
}

func TestOpenSourcePositionalFile(t *testing.T) {
	path := writeTempFile(t, "input.axp", "positional")

	r, done, err := openSource(t.Context(), path)
	if err != nil {
		t.Fatalf("openSource failed: %v", err)
	}
	defer done()

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("reading source: %v", err)
	}

	if string(data) != "positional" {
		t.Errorf("got %q, want %q", string(data), "positional")
	}
}

func TestOpenSourceStdin(t *testing.T) {
	redirectStdin(t, "from-stdin")

	r, done, err := openSource(t.Context(), stdinSource)
	if err != nil {
		t.Fatalf("openSource failed: %v", err)
	}
	defer done()

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("reading source: %v", err)
	}

	if string(data) != "from-stdin" {
		t.Errorf("got %q, want %q", string(data), "from-stdin")
	}
}

func TestOpenSourceMissingFile(t *testing.T) {
	_, _, err := openSource(t.Context(), "/nonexistent/input.axp")
	if err == nil {
		t.Fatal("expected error for missing source file")
	}

	if !strings.Contains(err.Error(), "open source file") {
		t.Errorf("unexpected error message: %v", err)
	}
}

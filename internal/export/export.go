// Package export concatenates a directory's source files into a single
// Markdown document with a linked table of contents.
package export

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/vidforge/vidforge/internal/logging"
)

const timestampFormat = "20060102_150405"

// fenceLanguages maps file extensions to Markdown fence languages.
// Unlisted extensions fall back to the bare extension name.
var fenceLanguages = map[string]string{
	".go": "go",
	".py": "python",
	".js": "javascript",
	".ts": "typescript",
	".sh": "bash",
}

// DefaultOutputPath returns the timestamped document path inside the
// source directory, e.g. all_code_20251217_153000.md.
func DefaultOutputPath(sourceDir string, now time.Time) string {
	return filepath.Join(sourceDir, fmt.Sprintf("all_code_%s.md", now.Format(timestampFormat)))
}

// CollectFiles walks sourceDir and returns the relative paths of every
// file with the given extension, sorted.
func CollectFiles(sourceDir, ext string) ([]string, error) {
	ext = strings.ToLower(ext)
	var files []string
	err := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.ToLower(filepath.Ext(path)) != ext {
			return nil
		}
		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", sourceDir, err)
	}
	sort.Strings(files)
	return files, nil
}

// BuildDocument renders the Markdown document for the given relative
// file paths. File contents are read from sourceDir; a file that cannot
// be read gets a note in place of its content.
func BuildDocument(sourceDir, ext string, files []string, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s source export\n\n", filepath.Base(sourceDir))
	fmt.Fprintf(&b, "Generated: %s\n\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "%d files\n\n---\n\n", len(files))

	b.WriteString("## Contents\n\n")
	for i, rel := range files {
		fmt.Fprintf(&b, "%d. [%s](#%s)\n", i+1, rel, anchor(rel))
	}
	b.WriteString("\n---\n")

	lang := fenceLanguages[strings.ToLower(ext)]
	if lang == "" {
		lang = strings.TrimPrefix(strings.ToLower(ext), ".")
	}

	for _, rel := range files {
		fmt.Fprintf(&b, "\n## %s {#%s}\n\n", rel, anchor(rel))
		fmt.Fprintf(&b, "```%s\n", lang)

		content, err := os.ReadFile(filepath.Join(sourceDir, rel))
		if err != nil {
			fmt.Fprintf(&b, "(unreadable: %v)\n", err)
		} else {
			b.Write(content)
			if len(content) > 0 && content[len(content)-1] != '\n' {
				b.WriteByte('\n')
			}
		}
		b.WriteString("```\n\n---\n")
	}

	return b.String()
}

// Export writes the combined document and returns its path. An empty
// outPath selects the timestamped default inside sourceDir.
func Export(sourceDir, ext, outPath string, log *logging.Logger) (string, error) {
	if _, err := os.Stat(sourceDir); err != nil {
		return "", fmt.Errorf("source folder: %w", err)
	}

	now := time.Now()
	if outPath == "" {
		outPath = DefaultOutputPath(sourceDir, now)
	}

	files, err := CollectFiles(sourceDir, ext)
	if err != nil {
		return "", err
	}
	log.Info("Found %d %s files", len(files), ext)

	doc := BuildDocument(sourceDir, ext, files, now)
	if err := os.WriteFile(outPath, []byte(doc), 0o644); err != nil {
		return "", fmt.Errorf("write document: %w", err)
	}

	log.Success("Saved %s", outPath)
	return outPath, nil
}

// anchor turns a relative path into a Markdown heading anchor.
func anchor(rel string) string {
	r := strings.NewReplacer("/", "-", "\\", "-", ".", "-")
	return r.Replace(rel)
}

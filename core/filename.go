package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const fallbackFileName = "downloaded_file"

// SanitizeFileName replaces characters Windows rejects in filenames and
// trims trailing dots and spaces. An empty result falls back to a generic
// name so the policy is total.
func SanitizeFileName(name string) string {
	const invalid = `<>:"/\|?*`
	var b strings.Builder
	b.Grow(len(name))
	for _, ch := range name {
		if strings.ContainsRune(invalid, ch) {
			b.WriteByte('_')
		} else {
			b.WriteRune(ch)
		}
	}
	out := strings.Trim(b.String(), " .")
	if out == "" {
		return fallbackFileName
	}
	return out
}

// AllocateUniquePath resolves a free path for desired inside dir, appending
// " (n)" immediately before the extension and incrementing n until the path
// is unused: report.pdf, report (1).pdf, report (2).pdf, ...
func AllocateUniquePath(dir, desired string) string {
	clean := SanitizeFileName(desired)
	ext := filepath.Ext(clean)
	stem := strings.TrimSuffix(clean, ext)
	if stem == "" {
		stem = fallbackFileName
	}

	candidate := filepath.Join(dir, clean)
	for index := 1; pathExists(candidate); index++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, index, ext))
	}
	return candidate
}

// CreateUniqueFile opens a new file for desired inside dir under a free
// name, following the same " (n)" suffixing as AllocateUniquePath but
// claiming the name with an exclusive create. Concurrent callers asking
// for the same name each get their own file.
func CreateUniqueFile(dir, desired string) (*os.File, error) {
	clean := SanitizeFileName(desired)
	ext := filepath.Ext(clean)
	stem := strings.TrimSuffix(clean, ext)
	if stem == "" {
		stem = fallbackFileName
	}

	candidate := filepath.Join(dir, clean)
	for index := 1; ; index++ {
		f, err := os.OpenFile(candidate, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, nil
		}
		if !os.IsExist(err) {
			return nil, err
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, index, ext))
	}
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

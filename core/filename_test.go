package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"clean", "report.pdf", "report.pdf"},
		{"windows invalid", `a<b>c:d"e/f\g|h?i*.txt`, "a_b_c_d_e_f_g_h_i_.txt"},
		{"trailing dots and spaces", "notes. . ", "notes"},
		{"empty", "", "downloaded_file"},
		{"only invalid", "???", "___"},
		{"unicode kept", "简历.docx", "简历.docx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFileName(tt.in))
		})
	}
}

func TestAllocateUniquePathCollisionSuffixing(t *testing.T) {
	dir := t.TempDir()

	var got []string
	for i := 0; i < 3; i++ {
		path := AllocateUniquePath(dir, "report.pdf")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		got = append(got, filepath.Base(path))
	}

	assert.Equal(t, []string{"report.pdf", "report (1).pdf", "report (2).pdf"}, got)
}

func TestAllocateUniquePathNoExtension(t *testing.T) {
	dir := t.TempDir()

	first := AllocateUniquePath(dir, "README")
	require.NoError(t, os.WriteFile(first, []byte("x"), 0o644))
	second := AllocateUniquePath(dir, "README")

	assert.Equal(t, "README", filepath.Base(first))
	assert.Equal(t, "README (1)", filepath.Base(second))
}

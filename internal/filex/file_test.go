package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain name untouched", "report.pdf", "report.pdf"},
		{"allowed punctuation kept", "a_b-c.1.txt", "a_b-c.1.txt"},
		{"spaces replaced", "my file.txt", "my_file.txt"},
		{"path traversal neutralized", "../../etc/passwd", ".._.._etc_passwd"},
		{"windows separators neutralized", `..\..\boot.ini`, ".._.._boot.ini"},
		{"special characters replaced", "file@#name!.txt", "file__name_.txt"},
		{"empty becomes unknown", "", "unknown"},
		{"blank becomes unknown", "   ", "unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, SanitizeFilename(tc.in))
		})
	}
}

func TestSanitizeFilename_NoSeparators(t *testing.T) {
	got := SanitizeFilename("../../../var/../etc/shadow")
	require.NotContains(t, got, "/")
	require.NotContains(t, got, `\`)
}

func TestEnsureDir_CreatesDirectory(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "blobs", "nested")

	got, err := EnsureDir(target)
	require.NoError(t, err)
	require.Equal(t, target, got)

	fi, err := os.Stat(got)
	require.NoError(t, err)
	require.True(t, fi.IsDir())
}

func TestEnsureDir_Idempotent(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "blobs")

	first, err := EnsureDir(target)
	require.NoError(t, err)
	second, err := EnsureDir(target)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestEnsureDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "blobs")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o660))

	_, err := EnsureDir(target)
	require.Error(t, err)
}

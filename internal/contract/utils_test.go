package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/repohealth/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		grade    schema.Grade
		expected string
	}{
		{schema.GradeA, "Excellent"},
		{schema.GradeB, "Good"},
		{schema.GradeC, "Fair"},
		{schema.GradeD, "Poor"},
		{schema.GradeE, "Critical"},
		{schema.Grade("Z"), "Critical"},
	}

	for _, tt := range tests {
		t.Run(string(tt.grade), func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainLabel(tt.grade))
		})
	}
}

func TestGetColorLabel(t *testing.T) {
	for _, band := range schema.GradeBands {
		t.Run(band.Label, func(t *testing.T) {
			result := GetColorLabel(band.Grade)
			// Should contain the plain label
			assert.Contains(t, result, band.Label)
			assert.Contains(t, result, string(band.Grade))
		})
	}
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		tempFile := filepath.Join(t.TempDir(), "scores.json")

		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		assert.NotNil(t, file)
		_ = file.Close()

		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		input   string
		want    bool
		wantErr bool
	}{
		{"yes", true, false},
		{"TRUE", true, false},
		{"1", true, false},
		{"no", false, false},
		{"False", false, false},
		{"0", false, false},
		{"", false, true},
		{"maybe", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBoolString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetDBFilePaths(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	cachePath := GetCacheDBFilePath()
	assert.Contains(t, cachePath, ".repohealth_cache.db")
	assert.True(t, strings.HasPrefix(cachePath, homeDir), "path %s should start with home dir %s", cachePath, homeDir)

	snapshotPath := GetSnapshotDBFilePath()
	assert.Contains(t, snapshotPath, ".repohealth_snapshots.db")
	assert.NotEqual(t, cachePath, snapshotPath)
}

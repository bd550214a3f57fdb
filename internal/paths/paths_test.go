package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigDir_UnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	require.Equal(t, filepath.Join(home, ".config", "bbh"), ConfigDir())
	require.Equal(t, filepath.Join(home, ".config", "bbh", "history.db"), DefaultHistoryPath())
}

func TestDefaultConfigPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	t.Setenv(ConfigEnvVar, "")
	require.Equal(t, filepath.Join(home, ".config", "bbh", "config.yaml"), DefaultConfigPath())

	t.Setenv(ConfigEnvVar, "~/custom.yaml")
	require.Equal(t, filepath.Join(home, "custom.yaml"), DefaultConfigPath())

	t.Setenv(ConfigEnvVar, filepath.FromSlash("/etc/bbh.yaml"))
	require.Equal(t, filepath.FromSlash("/etc/bbh.yaml"), DefaultConfigPath())
}

func TestExpandHome_TableDriven(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "tilde alone", input: "~", want: home},
		{name: "tilde slash", input: "~/data/history.db", want: filepath.Join(home, "data", "history.db")},
		{name: "absolute", input: filepath.FromSlash("/var/bbh.db"), want: filepath.FromSlash("/var/bbh.db")},
		{name: "relative", input: "bbh.db", want: "bbh.db"},
		{name: "tilde user form untouched", input: "~other/x", want: "~other/x"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ExpandHome(tc.input))
		})
	}
}

func TestResolveHistoryPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	require.Equal(t, DefaultHistoryPath(), ResolveHistoryPath(""))
	require.Equal(t, DefaultHistoryPath(), ResolveHistoryPath("  "))
	require.Equal(t, filepath.Join(home, "h.db"), ResolveHistoryPath("~/h.db"))
}

package cli

import (
	"os"
	"testing"
)

func TestRootRegistersSubcommands(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"start", "migrate", "snapshot"} {
		sub, _, err := cmd.Find([]string{name})
		if err != nil || sub.Name() != name {
			t.Fatalf("expected %s subcommand, got %v (err=%v)", name, sub, err)
		}
	}
	if f := cmd.PersistentFlags().Lookup("config"); f == nil {
		t.Fatalf("expected --config flag")
	}
}

func TestSnapshotRequiresPostgres(t *testing.T) {
	path := t.TempDir() + "/config.yaml"
	if err := writeFile(path, "log:\n  level: error\n"); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cmd := newRootCmd()
	cmd.SetArgs([]string{"snapshot", "--config", path})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error without postgres url")
	}
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o600)
}

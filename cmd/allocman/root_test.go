package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

func run(t *testing.T, store string, args ...string) (string, error) {
	t.Helper()
	out := new(bytes.Buffer)
	err := Run(context.Background(), append([]string{"--store", store, "--log-level", "error"}, args...), out, new(bytes.Buffer))
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	store := t.TempDir()
	external := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(external, "Fifo.go"), []byte("package main\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(external, "2bad.go"), []byte("package main\n"), 0644))

	out, err := run(t, store, "new", "Fair")
	require.NoError(t, err)
	assert.Equal(t, "created Fair\n", out)

	_, err = run(t, store, "new", "Fair")
	assert.Error(t, err)

	out, err = run(t, store, "import", filepath.Join(external, "Fifo.go"))
	require.NoError(t, err)
	assert.Equal(t, "imported Fifo\n", out)

	out, err = run(t, store, "import", external)
	assert.Error(t, err, "invalid name in directory")
	assert.Contains(t, out, "imported Fifo")

	out, err = run(t, store, "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "Fair"))
	assert.Contains(t, lines[1], "uncompiled")
	assert.True(t, strings.HasPrefix(lines[2], "Fifo"))

	out, err = run(t, store, "show", "Fifo")
	require.NoError(t, err)
	assert.Equal(t, "package main\n", out)

	_, err = run(t, store, "delete", "Fifo")
	require.NoError(t, err)
	_, err = run(t, store, "show", "Fifo")
	assert.Error(t, err)
	_, err = run(t, store, "events")
	assert.Error(t, err, "memory vendor has no journal")
}

func TestRootCommand_NewFrom(t *testing.T) {
	store := t.TempDir()
	source := "mem://localhost/cmd/" + t.Name() + "/Seed.go"
	require.NoError(t, afs.New().Upload(context.Background(), source, file.DefaultFileOsMode, strings.NewReader("package main // seed\n")))

	out, err := run(t, store, "new", "Seeded", "--from", source)
	require.NoError(t, err)
	assert.Equal(t, "created Seeded\n", out)
	out, err = run(t, store, "show", "Seeded")
	require.NoError(t, err)
	assert.Equal(t, "package main // seed\n", out)

	_, err = run(t, store, "new", "Other", "--from", "mem://localhost/cmd/"+t.Name()+"/Missing.go")
	assert.Error(t, err)
}

func TestRun_ClosesManagerOnFailure(t *testing.T) {
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash is not available")
	}
	store, work := t.TempDir(), t.TempDir()
	config := filepath.Join(t.TempDir(), "allocman.yaml")
	require.NoError(t, os.WriteFile(config, []byte(fmt.Sprintf(`store:
  url: %v
compiler:
  workURL: %v
  command: "! grep -q broken ${source} && cp ${source} ${output}"
  workers: 1
  timeoutMs: 30000
log:
  level: error
`, store, work)), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(store, "Good.go"), []byte("package main\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(store, "Bad.go"), []byte("package main // broken\n"), 0644))

	stderr := new(bytes.Buffer)
	err := Run(context.Background(), []string{"--config", config, "compile", "Good", "Bad"}, new(bytes.Buffer), stderr)
	require.Error(t, err)
	assert.Contains(t, stderr.String(), "Bad")
	entries, err := os.ReadDir(filepath.Join(work, "bin"))
	require.NoError(t, err)
	assert.Empty(t, entries, "executables are released when the command fails")
}

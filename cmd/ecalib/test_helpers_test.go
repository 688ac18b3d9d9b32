package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ecalib/internal/cfl"
	"ecalib/internal/config"
	"ecalib/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	argsFile   string
	fixtures   string
	kspace     string
	sens       cfl.Array
	maps       cfl.Array
	imgcov     cfl.Array
}

// setupCLITestEnv writes a config pointing at temp directories and a stub
// bart that copies fixture containers to its output paths.
func setupCLITestEnv(t *testing.T, stubBody func(argsFile, fixtures string) string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("TOOLBOX_PATH", "")
	t.Setenv("BART_TOOLBOX_PATH", "")

	env := &cliTestEnv{
		baseDir:  base,
		argsFile: filepath.Join(base, "args.txt"),
		fixtures: filepath.Join(base, "fixtures"),
		kspace:   filepath.Join(base, "input", "kspace"),
		sens:     testsupport.Ramp(t, 6, 6, 1, 4, 2),
		maps:     testsupport.Ramp(t, 6, 6, 1, 2),
		imgcov:   testsupport.Ramp(t, 6, 6, 1, 10),
	}
	testsupport.WriteArray(t, filepath.Join(env.fixtures, testsupport.FixtureSensitivities), env.sens)
	testsupport.WriteArray(t, filepath.Join(env.fixtures, testsupport.FixtureEVMaps), env.maps)
	testsupport.WriteArray(t, filepath.Join(env.fixtures, testsupport.FixtureImgCov), env.imgcov)
	testsupport.WriteArray(t, env.kspace, testsupport.Ramp(t, 6, 6, 1, 4))

	env.cfg = testsupport.NewConfig(t, testsupport.WithHistory())
	if stubBody != nil {
		testsupport.WriteScript(t, env.cfg.BART.InstallRoot, "bart", stubBody(env.argsFile, env.fixtures))
	}

	env.configPath = filepath.Join(homeDir, ".config", "ecalib", "config.toml")
	writeTestConfig(t, env.configPath, env.cfg)
	return env
}

func ecalibStub(argsFile, fixtures string) string {
	return testsupport.ECalibStub(argsFile, fixtures)
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	content := fmt.Sprintf(`[bart]
install_root = %q

[paths]
scratch_dir = %q
log_dir = %q
min_free_mib = 0

[history]
enabled = %t
path = %q

[logging]
level = "error"
`,
		cfg.BART.InstallRoot,
		cfg.Paths.ScratchDir,
		cfg.Paths.LogDir,
		cfg.History.Enabled,
		cfg.History.Path,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodrovis/unitx/config"
)

// tree lays out a temporary project:
//
//	outer/.env            (optional)
//	outer/repo/go.mod     (optional)
//	outer/repo/.env       (optional)
//	outer/repo/pkg/sub    (working directory)
type tree struct {
	outerEnv string
	goMod    bool
	repoEnv  string
	cwdEnv   string
}

func (tr tree) build(t *testing.T) (repo, cwd string) {
	t.Helper()
	outer := t.TempDir()
	repo = filepath.Join(outer, "repo")
	cwd = filepath.Join(repo, "pkg", "sub")
	if err := os.MkdirAll(cwd, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	write := func(path, body string) {
		if body == "" {
			return
		}
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	write(filepath.Join(outer, ".env"), tr.outerEnv)
	if tr.goMod {
		write(filepath.Join(repo, "go.mod"), "module example.com/repo\n")
	}
	write(filepath.Join(repo, ".env"), tr.repoEnv)
	write(filepath.Join(cwd, ".env"), tr.cwdEnv)
	return repo, cwd
}

// unset clears key for the test and restores it afterwards, including
// values godotenv sets behind t's back.
func unset(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	_ = os.Unsetenv(key)
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDotEnv_Discovery(t *testing.T) {
	const key = "UNITX_TEST_TOKEN"

	tests := []struct {
		name    string
		tree    tree
		want    string
		wantErr bool
	}{
		{
			name: "working directory wins",
			tree: tree{goMod: true, repoEnv: key + "=root\n", cwdEnv: key + "=cwd\n"},
			want: "cwd",
		},
		{
			name: "walks up to project root",
			tree: tree{goMod: true, repoEnv: key + "=root\n"},
			want: "root",
		},
		{
			name:    "stops at go.mod",
			tree:    tree{goMod: true, outerEnv: key + "=outside\n"},
			wantErr: true,
		},
		{
			name: "no go.mod keeps walking",
			tree: tree{outerEnv: key + "=outside\n"},
			want: "outside",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unset(t, key)
			_, cwd := tt.tree.build(t)
			chdir(t, cwd)

			err := config.LoadDotEnv()
			if tt.wantErr {
				if !errors.Is(err, os.ErrNotExist) {
					t.Fatalf("err = %v; want os.ErrNotExist", err)
				}
				if got := os.Getenv(key); got != "" {
					t.Fatalf("%s = %q; want unset", key, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadDotEnv: %v", err)
			}
			if got := os.Getenv(key); got != tt.want {
				t.Fatalf("%s = %q; want %q", key, got, tt.want)
			}
		})
	}
}

func TestLoadDotEnv_ExplicitPathAndNoOverride(t *testing.T) {
	unset(t, config.EnvAPIURL)
	t.Setenv(config.EnvToken, "from-shell")

	p := filepath.Join(t.TempDir(), "sandbox.env")
	body := config.EnvToken + "=from-file\n" + config.EnvAPIURL + "=https://api.unit.co\n"
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := config.LoadDotEnv(p); err != nil {
		t.Fatalf("LoadDotEnv(%s): %v", p, err)
	}
	s, err := config.FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if s.Token != "from-shell" {
		t.Fatalf("token = %q; shell value must win", s.Token)
	}
	if s.APIURL != "https://api.unit.co" {
		t.Fatalf("api url = %q", s.APIURL)
	}
}

func TestFindProjectRoot(t *testing.T) {
	repo, cwd := tree{goMod: true}.build(t)

	got, err := config.FindProjectRoot(cwd)
	if err != nil {
		t.Fatalf("FindProjectRoot: %v", err)
	}
	if got != repo {
		t.Fatalf("root = %s; want %s", got, repo)
	}

	if _, err := config.FindProjectRoot(string(filepath.Separator)); err == nil {
		t.Fatalf("expected error without go.mod")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(config.EnvToken, " tok ")
	t.Setenv(config.EnvAPIURL, "")

	s, err := config.FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if s.Token != "tok" {
		t.Fatalf("token = %q; want trimmed %q", s.Token, "tok")
	}
	if s.APIURL != config.DefaultAPIURL {
		t.Fatalf("api url = %q; want default %q", s.APIURL, config.DefaultAPIURL)
	}

	t.Setenv(config.EnvToken, "")
	if _, err := config.FromEnv(); !errors.Is(err, config.ErrNoToken) {
		t.Fatalf("err = %v; want ErrNoToken", err)
	}
}

func TestGetEnv(t *testing.T) {
	const key = "UNITX_TEST_GETENV"

	unset(t, key)
	if got := config.GetEnv(key, "fallback"); got != "fallback" {
		t.Fatalf("unset: got %q", got)
	}
	t.Setenv(key, "set")
	if got := config.GetEnv(key, "fallback"); got != "set" {
		t.Fatalf("set: got %q", got)
	}
}

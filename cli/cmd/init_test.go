package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/alecthomas/kong"
	"github.com/google/go-cmp/cmp"
)

// initCLI mirrors the shape of the root command: grouped, prefixed flags and
// an ungrouped one.
type initCLI struct {
	Level   string `default:"info" group:"log" name:"log-level"`
	Pretty  bool   `default:"true" group:"log" name:"log-pretty"`
	Width   int    `default:"80"               name:"width"`
	Comment string `                           name:"comment"`

	Init Init `cmd:""`
}

func initContext(t *testing.T, confPath string, args ...string) (context.Context, *initCLI) {
	t.Helper()

	var cli initCLI

	parser, err := kong.New(&cli,
		kong.Vars{ConfigIdentifier: confPath},
		kong.ExplicitGroups([]kong.Group{{Key: "log", Title: "Logging options"}}),
	)
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(append([]string{"init"}, args...))
	if err != nil {
		t.Fatal(err)
	}

	return WithContext(context.Background(), ktx), &cli
}

func TestInitRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr error
	}{
		{name: "create_new_config"},
		{name: "overwrite_existing_with_force", force: true, exists: true},
		{name: "fail_without_force", exists: true, wantErr: ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "config.toml")

			if tt.exists {
				if err := os.WriteFile(confPath, []byte("existing"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			ctx, cli := initContext(t, confPath, "--log-level=debug")
			cli.Init.Force = tt.force

			err := cli.Init.Run(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) || !errors.Is(err, ErrWriteConfig) {
					t.Errorf("Init.Run() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Init.Run() error: %v", err)
			}

			var got map[string]any
			if _, err := toml.DecodeFile(confPath, &got); err != nil {
				t.Fatalf("generated config is not valid TOML: %v", err)
			}

			want := map[string]any{
				"log":   map[string]any{"level": "debug", "pretty": true},
				"width": int64(80),
			}

			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

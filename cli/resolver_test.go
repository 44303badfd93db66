package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/google/go-cmp/cmp"
)

func loadConfig(t *testing.T, text string) kong.Resolver {
	t.Helper()

	resolver, err := resolve(context.Background())(strings.NewReader(text))
	if err != nil {
		t.Fatalf("resolve() error: %v", err)
	}

	return resolver
}

func TestResolve_Flatten(t *testing.T) {
	resolver := loadConfig(t, `
top = "value"
ratio = 0.5
names = ["a", "b"]

[log]
level = "debug"
time_layout = "Kitchen"
pretty = false

[pprof]
mode = "cpu"

[deep.nested]
count = 3
`)

	want := config{
		"top":               "value",
		"ratio":             "0.5",
		"names":             "a,b",
		"log-level":         "debug",
		"log-time-layout":   "Kitchen",
		"log-pretty":        false,
		"pprof-mode":        "cpu",
		"deep-nested-count": "3",
	}

	if diff := cmp.Diff(want, resolver); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_Resolve(t *testing.T) {
	resolver := loadConfig(t, "[log]\nlevel = \"warn\"\n")

	tests := []struct {
		flag string
		want any
	}{
		{"log-level", "warn"},
		{"log-format", nil},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			flag := &kong.Flag{Value: &kong.Value{Name: tt.flag}}

			got, err := resolver.Resolve(nil, nil, flag)
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}

			if got != tt.want {
				t.Errorf("Resolve(%q) = %v, want %v", tt.flag, got, tt.want)
			}
		})
	}
}

func TestResolve_InvalidConfig(t *testing.T) {
	resolver := loadConfig(t, "[log\nlevel = ")

	if diff := cmp.Diff(config{}, resolver); diff != "" {
		t.Errorf("invalid config not ignored (-want +got):\n%s", diff)
	}
}

// TestResolve_Kong checks that flattened values map onto real flags.
func TestResolve_Kong(t *testing.T) {
	var cli struct {
		Level  string   `default:"info" name:"log-level"`
		Pretty bool     `default:"true" name:"log-pretty"`
		Width  int      `default:"80"   name:"width"`
		Names  []string `               name:"names"`
	}

	cfg := "width = 120\nnames = [\"x\", \"y\"]\n[log]\nlevel = \"debug\"\npretty = false\n"

	parser, err := kong.New(&cli, kong.Resolvers(loadConfig(t, cfg)))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse([]string{"--log-level=error"}); err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if cli.Level != "error" {
		t.Errorf("Level = %q, want flag to override config", cli.Level)
	}

	if cli.Pretty || cli.Width != 120 {
		t.Errorf("Pretty = %v, Width = %d, want false, 120", cli.Pretty, cli.Width)
	}

	if diff := cmp.Diff([]string{"x", "y"}, cli.Names); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}
}

package engine

import (
	"errors"
	"testing"
)

func TestParseArgs(t *testing.T) {
	testCases := []struct {
		name    string
		args    []string
		want    Config
		wantErr bool
	}{
		{
			name: "inputs only",
			args: []string{"main.code", "helpers.code"},
			want: Config{Inputs: []string{"main.code", "helpers.code"}},
		},
		{
			name: "module name and index dir",
			args: []string{"-module-name", "app", "-index", "/tmp/ix", "main.code"},
			want: Config{ModuleName: "app", IndexDir: "/tmp/ix", Inputs: []string{"main.code"}},
		},
		{
			name: "no arguments",
			args: nil,
			want: Config{},
		},
		{
			name:    "unknown flag",
			args:    []string{"-frobnicate", "main.code"},
			wantErr: true,
		},
		{
			name:    "missing module name value",
			args:    []string{"main.code", "-module-name"},
			wantErr: true,
		},
		{
			name:    "missing index value",
			args:    []string{"-index"},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := ParseArgs(tc.args)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				var cfgErr *ConfigError
				if !errors.As(err, &cfgErr) {
					t.Fatalf("expected ConfigError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.ModuleName != tc.want.ModuleName || cfg.IndexDir != tc.want.IndexDir {
				t.Errorf("got %+v, want %+v", cfg, tc.want)
			}
			if len(cfg.Inputs) != len(tc.want.Inputs) {
				t.Fatalf("got inputs %v, want %v", cfg.Inputs, tc.want.Inputs)
			}
			for i := range cfg.Inputs {
				if cfg.Inputs[i] != tc.want.Inputs[i] {
					t.Errorf("input %d: got %q, want %q", i, cfg.Inputs[i], tc.want.Inputs[i])
				}
			}
		})
	}
}

func TestConfigKeyIsStable(t *testing.T) {
	a, err := ParseArgs([]string{"-module-name", "app", "main.code"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := ParseArgs([]string{"-module-name", "app", "main.code"})
	if err != nil {
		t.Fatal(err)
	}
	if a.Key() != b.Key() {
		t.Errorf("identical configs produced different keys: %q vs %q", a.Key(), b.Key())
	}

	c, err := ParseArgs([]string{"-module-name", "other", "main.code"})
	if err != nil {
		t.Fatal(err)
	}
	if a.Key() == c.Key() {
		t.Error("different configs produced the same key")
	}
}

package loader

import "testing"

func TestEnvLoader_Load(t *testing.T) {
	t.Setenv("TILESTORM_HISTORY_CAPACITY", "42")
	t.Setenv("TILESTORM_LOG_LEVEL", "debug")
	t.Setenv("TILESTORM_MAP_TILE_WIDTH", "16")
	t.Setenv("TILESTORM_SCRIPT_TIMEOUT", "2s")
	t.Setenv("OTHER_HISTORY_CAPACITY", "1")

	cfg, err := NewEnvLoader("TILESTORM_").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		path string
		want any
	}{
		{"history.capacity", int64(42)},
		{"logging.level", "debug"},
		{"map.tileWidth", int64(16)},
		{"script.timeout", "2s"},
	}

	for _, tt := range tests {
		if val, ok := Lookup(cfg, tt.path); !ok || val != tt.want {
			t.Errorf("%s = %v (%T), want %v", tt.path, val, val, tt.want)
		}
	}
}

func TestEnvLoader_SkipsBareNames(t *testing.T) {
	l := NewEnvLoader("TILESTORM_")
	l.environ = func() []string {
		return []string{"TILESTORM_CONFIG=/tmp/x.toml", "TILESTORM_=1"}
	}

	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg) != 0 {
		t.Errorf("cfg = %v, want empty", cfg)
	}
}

func TestEnvLoader_EnvToPath(t *testing.T) {
	l := NewEnvLoader("TILESTORM_")

	tests := []struct {
		env  string
		want string
	}{
		{"TILESTORM_HISTORY_CAPACITY", "history.capacity"},
		{"TILESTORM_MAP_TILE_HEIGHT", "map.tileHeight"},
		{"TILESTORM_MAP_ROWS", "map.rows"},
		{"TILESTORM_DEBUG", ""},
	}

	for _, tt := range tests {
		if got := l.envToPath(tt.env); got != tt.want {
			t.Errorf("envToPath(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"12", int64(12)},
		{"-1", int64(-1)},
		{"true", true},
		{"Off", false},
		{"warn", "warn"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := parseValue(tt.in); got != tt.want {
			t.Errorf("parseValue(%q) = %v (%T), want %v", tt.in, got, got, tt.want)
		}
	}
}

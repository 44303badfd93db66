package profile

import "testing"

func TestConfig_Options(t *testing.T) {
	c := Make(WithMode("cpu"), WithPath("/tmp/p"), WithQuiet(true))

	mode, path, quiet := c()
	if mode != "cpu" || path != "/tmp/p" || !quiet {
		t.Errorf("Config() = (%q, %q, %v)", mode, path, quiet)
	}

	// Later options override earlier ones without touching other fields.
	mode, path, quiet = WithMode("heap")(c)()
	if mode != "heap" || path != "/tmp/p" || !quiet {
		t.Errorf("Config() after WithMode = (%q, %q, %v)", mode, path, quiet)
	}
}

func TestConfig_Start_NoMode(t *testing.T) {
	ctrl := Make().Start()
	if _, ok := ctrl.(ignore); !ok {
		t.Errorf("Start() with no mode = %T, want no-op", ctrl)
	}

	ctrl.Stop()
}

func TestConfig_Start_UnknownMode(t *testing.T) {
	ctrl := Make(WithMode("bogus")).Start()
	if _, ok := ctrl.(ignore); !ok {
		t.Errorf("Start() with unknown mode = %T, want no-op", ctrl)
	}

	ctrl.Stop()
}

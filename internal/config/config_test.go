package config

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDefaultThresholds(t *testing.T) {
	Convey("Default returns the spec-mandated thresholds", t, func() {
		cfg := Default()

		So(cfg.Thresholds.AbsClass, ShouldEqual, 0.85)
		So(cfg.Thresholds.RelClass, ShouldEqual, 0.085)
		So(cfg.DefaultLevel, ShouldEqual, "Full")
	})
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	Convey("Given a YAML file overriding one threshold", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "matcher.yml")
		So(os.WriteFile(path, []byte("thresholds:\n  absClass: 0.9\n"), 0o644), ShouldBeNil)

		Convey("LoadFile keeps defaults for untouched fields", func() {
			cfg, err := NewLoader().LoadFile(path)
			So(err, ShouldBeNil)
			So(cfg.Thresholds.AbsClass, ShouldEqual, 0.9)
			So(cfg.Thresholds.RelClass, ShouldEqual, 0.085)
		})
	})
}

func TestApplyEnvOverridesNestedField(t *testing.T) {
	Convey("Given MATCHER_ABS_METHOD is set", t, func() {
		os.Setenv("MATCHER_ABS_METHOD", "0.95")
		defer os.Unsetenv("MATCHER_ABS_METHOD")

		Convey("ApplyEnv overrides the nested threshold", func() {
			cfg := Default()
			So(NewLoader().ApplyEnv(cfg), ShouldBeNil)
			So(cfg.Thresholds.AbsMethod, ShouldEqual, 0.95)
		})
	})
}

package config_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/okian/alurastore/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("ALURASTORE_OUTPUT_DIR", "/tmp/charts")
			_ = os.Setenv("ALURASTORE_TOP_N", "5")
			_ = os.Setenv("ALURASTORE_FETCH_TIMEOUT", "5s")
			_ = os.Setenv("ALURASTORE_LOG_LEVEL", "debug")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.OutputDir, convey.ShouldEqual, "/tmp/charts")
				convey.So(cfg.TopN, convey.ShouldEqual, 5)
				convey.So(cfg.FetchTimeout, convey.ShouldEqual, 5*time.Second)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(len(cfg.Sources), convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When a single source ref is overridden", func() {
			_ = os.Setenv("ALURASTORE_SOURCE_2", "/data/tienda_2.csv")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then only that source changes", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Sources[1].Store, convey.ShouldEqual, "Tienda 2")
				convey.So(cfg.Sources[1].Ref, convey.ShouldEqual, "/data/tienda_2.csv")
				convey.So(cfg.Sources[0].Ref, convey.ShouldEqual, config.DefaultSources()[0].Ref)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
output_dir: "out"
top_n: 2
export_path: "out/resumen.xlsx"
sources:
  - store: "Norte"
    ref: "data/norte.csv"
  - store: "Sur"
    ref: "data/sur.csv"
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("ALURASTORE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then the file list replaces the default sources", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.OutputDir, convey.ShouldEqual, "out")
				convey.So(cfg.TopN, convey.ShouldEqual, 2)
				convey.So(cfg.ExportPath, convey.ShouldEqual, "out/resumen.xlsx")
				convey.So(cfg.Sources, convey.ShouldResemble, []config.SourceConfig{
					{Store: "Norte", Ref: "data/norte.csv"},
					{Store: "Sur", Ref: "data/sur.csv"},
				})
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
output_dir: "out"
top_n: 2
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("ALURASTORE_CONFIG", tmpFile)
			_ = os.Setenv("ALURASTORE_TOP_N", "4")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.OutputDir, convey.ShouldEqual, "out") // From file
				convey.So(cfg.TopN, convey.ShouldEqual, 4)          // Overridden by env
				convey.So(cfg.FetchTimeout, convey.ShouldEqual, 60*time.Second)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("ALURASTORE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("ALURASTORE_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an invalid numeric value", func() {
			_ = os.Setenv("ALURASTORE_TOP_N", "tres")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an empty output dir", func() {
			_ = os.Setenv("ALURASTORE_OUTPUT_DIR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "output_dir must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"ALURASTORE_CONFIG",
		"ALURASTORE_LOG_LEVEL",
		"ALURASTORE_OUTPUT_DIR",
		"ALURASTORE_FETCH_TIMEOUT",
		"ALURASTORE_TOP_N",
		"ALURASTORE_EXPORT_PATH",
		"ALURASTORE_METRICS_PATH",
		"ALURASTORE_SOURCE_1",
		"ALURASTORE_SOURCE_2",
		"ALURASTORE_SOURCE_3",
		"ALURASTORE_SOURCE_4",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "alurastore-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}

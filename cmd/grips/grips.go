package main

import (
	"fmt"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/toastate/grips/internal/builder"
	"github.com/toastate/grips/internal/server"
	"github.com/toastate/grips/internal/tlogger"
	"github.com/toastate/grips/pkg/config"
)

var CLI struct {
	Build CommandBuild `cmd:"" default:"withargs" aliases:"b" help:"Renders and copies the source folder into the target folder."`
	Serve CommandServe `cmd:"" aliases:"s" help:"Builds, then serves the target folder and rebuilds on changes."`

	ConfigFile string `short:"c" help:"configuration file path (json, yaml or toml)" default:"grips.json"`
}

type CommandBuild struct {
	SrcDir   string `help:"Source directory, overrides the configuration."`
	BuildDir string `help:"Build output, overrides the configuration."`
	Clean    bool   `help:"Remove the build output before building."`

	Verbose int `short:"v" help:"Print verbose output." type:"counter"`
}

type CommandServe struct {
	SrcDir   string `help:"Source directory, overrides the configuration."`
	BuildDir string `help:"Build output, overrides the configuration."`
	Build    bool   `negatable:"" default:"true" help:"Build and rebuild on changes."`

	Port int `short:"p" help:"Listener port"`

	Verbose int `short:"v" help:"Print verbose output." type:"counter"`
}

func main() {
	ctx := kong.Parse(&CLI, kong.UsageOnError())
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}

func applyVerbose(v int) {
	switch v {
	case 0:
		tlogger.ApplyLogLevel("info")
	case 1:
		tlogger.ApplyLogLevel("debug")
	default:
		tlogger.ApplyLogLevel("all")
	}
}

func loadConfig(srcDir, buildDir string) (*config.Configuration, error) {
	conf, err := config.Load(CLI.ConfigFile)
	if err != nil {
		tlogger.Error("msg", "Failed to load configuration", "path", CLI.ConfigFile, "err", err)
		return nil, err
	}
	if srcDir != "" {
		conf.Source = srcDir
	}
	if buildDir != "" {
		conf.Target = buildDir
	}
	return conf, nil
}

func (r *CommandBuild) Run(ctx *kong.Context) error {
	applyVerbose(r.Verbose)

	conf, err := loadConfig(r.SrcDir, r.BuildDir)
	if err != nil {
		return err
	}
	if r.Clean {
		conf.Clean = true
	}

	report, err := builder.NewBuilder(conf).Build()
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Stdout, "processed %d files\n", report.Processed)
	if n := len(report.RenderFailures); n > 0 {
		fmt.Fprintf(ctx.Stdout, "%d files failed to render\n", n)
	}
	return nil
}

func (r *CommandServe) Run(ctx *kong.Context) error {
	applyVerbose(r.Verbose)

	conf, err := loadConfig(r.SrcDir, r.BuildDir)
	if err != nil {
		return err
	}
	if r.Port <= 0 {
		r.Port = conf.ServeConfig.Port
	}

	var buildtool *builder.Builder
	if r.Build {
		buildtool = builder.NewBuilder(conf)
	}

	serv := server.NewServer(conf.Target, strconv.Itoa(r.Port), conf.ServeConfig.Redirect404, buildtool)
	return serv.Start()
}

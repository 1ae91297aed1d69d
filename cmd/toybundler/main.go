package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/thought-machine/go-flags"
	"gopkg.in/yaml.v3"

	"github.com/Codpoe/toy-bundler/internal/bundler"
	"github.com/Codpoe/toy-bundler/internal/plugins/cssplugin"
	"github.com/Codpoe/toy-bundler/internal/plugins/htmlplugin"
	"github.com/Codpoe/toy-bundler/internal/plugins/modulesplugin"
	"github.com/Codpoe/toy-bundler/internal/plugins/resolveplugin"
	"github.com/Codpoe/toy-bundler/internal/plugins/resourcesplugin"
	"github.com/Codpoe/toy-bundler/internal/plugins/scriptplugin"
)

var opts = struct {
	Usage string

	Compile struct {
		Root       string   `short:"r" long:"root" description:"Project root directory" default:"."`
		Input      []string `short:"i" long:"input" description:"Entry point(s) as name=path (repeatable); defaults to main=./index.html"`
		OutDir     string   `short:"o" long:"out-dir" description:"Output directory" default:"./dist"`
		Config     string   `short:"c" long:"config" description:"Path to a YAML config file, merged under the flags above"`
		Define     []string `long:"define" description:"Build-time substitutions (key=value)"`
		Extensions []string `long:"ext" description:"Resolvable extensions, in order (defaults to .js, .jsx, .ts, .tsx)"`
	} `command:"compile" alias:"c" description:"Compile the project into the output directory"`
}{
	Usage: `
toybundler bundles an HTML/CSS/JS project into a static output directory.

It provides one operation:
  - compile: resolve, load, transform and bundle every module reachable
             from the configured entry points, then write the result.
`,
}

// fileConfig is the subset of Config that a YAML file may set; it's merged
// onto the CLI-flag-derived Config before plugins see it (CLI flags already
// applied win, since mergeFileConfig only fills in fields whose flags were
// left at their defaults).
type fileConfig struct {
	Root    string            `yaml:"root"`
	Input   map[string]string `yaml:"input"`
	Output  struct {
		Dir string `yaml:"dir"`
	} `yaml:"output"`
	Define map[string]string `yaml:"define"`
}

func buildConfig() (*bundler.Config, error) {
	cfg := bundler.DefaultConfig()
	cfg.Root = opts.Compile.Root
	cfg.Output.Dir = opts.Compile.OutDir
	if len(opts.Compile.Extensions) > 0 {
		cfg.Resolve.Extensions = opts.Compile.Extensions
	}

	if len(opts.Compile.Input) > 0 {
		cfg.Input = map[string]string{}
		for _, kv := range opts.Compile.Input {
			name, path, ok := strings.Cut(kv, "=")
			if !ok {
				return nil, bundler.NewGenericError("invalid --input %q, want name=path", kv)
			}
			cfg.Input[name] = path
		}
	}

	for _, kv := range opts.Compile.Define {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, bundler.NewGenericError("invalid --define %q, want key=value", kv)
		}
		cfg.Define[name] = value
	}

	if opts.Compile.Config != "" {
		data, err := os.ReadFile(opts.Compile.Config)
		if err != nil {
			return nil, err
		}
		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, err
		}
		mergeFileConfig(cfg, &fc)
	}

	return cfg, nil
}

// mergeFileConfig fills in cfg fields the CLI flags left at their default,
// from the YAML file; explicit flags always win.
func mergeFileConfig(cfg *bundler.Config, fc *fileConfig) {
	if fc.Root != "" && opts.Compile.Root == "." {
		cfg.Root = fc.Root
	}
	if fc.Output.Dir != "" && opts.Compile.OutDir == "./dist" {
		cfg.Output.Dir = fc.Output.Dir
	}
	if len(fc.Input) > 0 && len(opts.Compile.Input) == 0 {
		cfg.Input = fc.Input
	}
	for k, v := range fc.Define {
		if _, ok := cfg.Define[k]; !ok {
			cfg.Define[k] = v
		}
	}
}

func runCompile() int {
	cfg, err := buildConfig()
	if err != nil {
		log.Fatal(err)
	}

	compiler, err := bundler.New(context.Background(), cfg,
		resolveplugin.New(cfg.Resolve),
		scriptplugin.New(),
		htmlplugin.New(),
		cssplugin.New(),
		modulesplugin.New(),
		resourcesplugin.New(),
	)
	if err != nil {
		log.Fatal(err)
	}

	if err := compiler.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
	return 0
}

var subCommands = map[string]func() int{
	"compile": runCompile,
}

func main() {
	p := flags.NewParser(&opts, flags.Default)
	_, err := p.Parse()
	if err != nil {
		os.Exit(1)
	}
	if p.Active == nil {
		p.WriteHelp(os.Stderr)
		os.Exit(1)
	}
	os.Exit(subCommands[p.Active.Name]())
}

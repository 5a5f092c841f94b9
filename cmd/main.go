package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/topherjaynes/Screenshot-Holmes/internal/config"
	"github.com/topherjaynes/Screenshot-Holmes/internal/counter"
	"github.com/topherjaynes/Screenshot-Holmes/internal/gemini"
	"github.com/topherjaynes/Screenshot-Holmes/internal/model"
	"github.com/topherjaynes/Screenshot-Holmes/internal/pngmeta"
	"github.com/topherjaynes/Screenshot-Holmes/internal/service"
)

type CLI struct {
	Organize OrganizeCmd `cmd:"" default:"withargs" help:"Rename screenshots from their visual content and embed the description as PNG metadata"`
	Count    CountCmd    `cmd:"" help:"Count screenshot PNGs under a directory tree"`
	Meta     MetaCmd     `cmd:"" help:"Print the embedded description for each PNG in a folder"`
}

type OrganizeCmd struct {
	Folder string `arg:"" optional:"" help:"Directory to organize (overrides FOLDER_PATH)" type:"path"`
	Config string `help:"Path to a YAML config file" type:"path"`
}

func (cmd *OrganizeCmd) Run() error {
	cfg, err := config.Load(cmd.Config)
	if err != nil {
		return err
	}
	if cmd.Folder != "" {
		cfg.FolderPath = cmd.Folder
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	client, err := gemini.SetupClient(ctx, cfg.APIKey)
	if err != nil {
		return err
	}

	analyzer := service.NewImageAnalyzer(client, cfg)
	processor := service.NewImageProcessor(analyzer, cfg)

	report, err := processor.Run(ctx, cfg.FolderPath)
	if err != nil {
		return err
	}

	printReport(report)
	return nil
}

func printReport(r *model.Report) {
	fmt.Println()
	for _, o := range r.Outcomes {
		switch o.Status {
		case model.StatusRenamed:
			log.Printf("renamed: %s -> %s", o.File, o.NewName)
		case model.StatusPartial:
			log.Printf("partial: %s (metadata written, %s: %s)", o.File, o.Reason, o.Detail)
		default:
			log.Printf("skipped: %s (%s: %s)", o.File, o.Reason, o.Detail)
		}
	}
	s := r.Summary
	log.Printf("done: %d renamed, %d skipped, %d partial", s.Renamed, s.Skipped, s.Partial)
}

type CountCmd struct {
	Folder    string `arg:"" help:"Root directory to scan" type:"existingdir"`
	Extension string `help:"File extension to match" default:"png"`
}

func (cmd *CountCmd) Run() error {
	c := &counter.ScreenshotCounter{}
	if err := c.Scan(cmd.Folder, cmd.Extension, counter.DefaultMarkers); err != nil {
		return err
	}
	fmt.Printf("Total %s files found: %d\n", strings.ToUpper(cmd.Extension), c.Total)
	fmt.Printf("Total screenshots found: %d\n", c.Matched)
	return nil
}

type MetaCmd struct {
	Folder string `arg:"" help:"Directory of PNGs to inspect" type:"existingdir"`
}

func (cmd *MetaCmd) Run() error {
	entries, err := os.ReadDir(cmd.Folder)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".png") {
			continue
		}
		desc, ok, err := pngmeta.Read(filepath.Join(cmd.Folder, e.Name()), pngmeta.DescriptionKeyword)
		if err != nil {
			log.Printf("error reading %s: %v", e.Name(), err)
			continue
		}
		if !ok {
			desc = "No description found"
		}
		fmt.Printf("Image: %s\nDescription: %s\n\n", e.Name(), desc)
	}
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("holmes"),
		kong.Description("Organizes a folder of screenshots by what is actually in them."))
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

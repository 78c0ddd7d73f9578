package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/CodeCavePro/RvtVa3cExporter/internal/cameras"
	"github.com/CodeCavePro/RvtVa3cExporter/internal/config"
	"github.com/CodeCavePro/RvtVa3cExporter/internal/export"
	"github.com/CodeCavePro/RvtVa3cExporter/internal/properties"
	"github.com/CodeCavePro/RvtVa3cExporter/pkg/bim"
	"github.com/CodeCavePro/RvtVa3cExporter/pkg/threejs"
)

// job exports scene files with one configuration. It is safe for
// concurrent use; every run gets its own export context.
type job struct {
	cfg   *config.Config
	props *properties.Extractor
	log   *zap.Logger
}

func newJob(cfg *config.Config, log *zap.Logger) *job {
	return &job{
		cfg:   cfg,
		props: properties.New(cfg.Properties.Filter),
		log:   log,
	}
}

// result describes one finished export.
type result struct {
	Input    string
	Output   string
	Stats    export.Stats
	Duration time.Duration
}

// options builds export options for doc.
func (j *job) options(doc *bim.Document) export.Options {
	opts := export.DefaultOptions()
	opts.SwitchCoordinates = j.cfg.Export.SwitchCoordinates
	opts.ModelScale = j.cfg.Export.ModelScale
	opts.VertexScale = j.cfg.Export.VertexScale
	opts.IncludeTypeParameters = j.cfg.Export.IncludeTypeParameters
	opts.Generator = j.cfg.Export.Generator
	opts.Properties = j.props
	opts.Cameras = cameras.Collect(doc)
	opts.Logger = j.log.Named("export")
	return opts
}

// run exports input to output, or to the default output path when output
// is empty.
func (j *job) run(ctx context.Context, input, output string) (result, error) {
	start := time.Now()
	res := result{Input: input, Output: output}
	if res.Output == "" {
		res.Output = outputPath(input, j.cfg.Output.Dir)
	}

	doc, err := bim.Load(input, j.cfg.Input.Encoding)
	if err != nil {
		return res, err
	}

	out, st, err := export.Run(ctx, doc, j.options(doc))
	res.Stats = st
	if err != nil {
		return res, fmt.Errorf("export %s: %w", input, err)
	}

	if err := threejs.WriteFile(res.Output, out, j.cfg.Output.Indent); err != nil {
		return res, err
	}
	res.Duration = time.Since(start)

	j.log.Info("exported",
		zap.String("input", input),
		zap.String("output", res.Output),
		zap.Int("elements", st.Elements),
		zap.Int("triangles", st.Triangles),
		zap.Int("faults", st.Faults),
		zap.Duration("took", res.Duration))
	return res, nil
}

// outputPath names the JSON file after the input, in dir or next to the
// input when dir is empty.
func outputPath(input, dir string) string {
	base := filepath.Base(input)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + ".json"
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, name)
}

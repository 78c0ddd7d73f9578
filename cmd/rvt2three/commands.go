package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"sync"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/CodeCavePro/RvtVa3cExporter/internal/cameras"
	"github.com/CodeCavePro/RvtVa3cExporter/internal/logger"
	"github.com/CodeCavePro/RvtVa3cExporter/pkg/bim"
)

func cmdExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	output := fs.String("o", "", "Output file (default: <scene>.json)")
	cfg := setup(fs, args)
	defer logger.Sync()

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: rvt2three export [options] <scene.yaml>")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := newJob(cfg, logger.Named("cli")).run(ctx, fs.Arg(0), *output)
	if err != nil {
		fatal(err)
	}
	printResult(res)
}

func cmdBatch(args []string) {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	cfg := setup(fs, args)
	defer logger.Sync()

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: rvt2three batch [options] <scene.yaml>...")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := runBatch(ctx, newJob(cfg, logger.Named("batch")), fs.Args(), cfg.Batch.Workers)
	for _, res := range results {
		printResult(res)
	}
	if err != nil {
		fatal(err)
	}
}

// runBatch exports every input with at most workers exports in flight.
// A failed input does not stop the others; all failures are returned
// combined. Successful results come back in input order.
func runBatch(ctx context.Context, j *job, inputs []string, workers int) ([]result, error) {
	var g errgroup.Group
	g.SetLimit(max(workers, 1))

	var (
		mu      sync.Mutex
		errs    error
		results = make([]*result, len(inputs))
	)
	for i, input := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := j.run(ctx, input, "")
			if err != nil {
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
				return nil
			}
			results[i] = &res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		errs = multierr.Append(errs, err)
	}

	var done []result
	for _, r := range results {
		if r != nil {
			done = append(done, *r)
		}
	}
	return done, errs
}

func cmdWatch(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	cfg := setup(fs, args)
	defer logger.Sync()

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: rvt2three watch [options] <scene.yaml>")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	w := &watcher{job: newJob(cfg, logger.Named("watch")), input: fs.Arg(0), onResult: printResult}
	if err := w.run(ctx); err != nil {
		fatal(err)
	}
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	cfg := setup(fs, args)
	defer logger.Sync()

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: rvt2three info <scene.yaml>")
		os.Exit(1)
	}

	doc, err := bim.Load(fs.Arg(0), cfg.Input.Encoding)
	if err != nil {
		fatal(err)
	}
	printInfo(doc)
}

func printInfo(doc *bim.Document) {
	st := doc.Stats()
	unit := doc.Unit
	if unit == "" {
		unit = bim.UnitFeet
	}

	fmt.Printf("Document:   %s\n", doc.Title)
	if doc.PathName != "" {
		fmt.Printf("Path:       %s\n", doc.PathName)
	}
	fmt.Printf("Units:      %s\n", unit)
	fmt.Printf("View:       %s\n", doc.ActiveView.Name)
	fmt.Printf("Elements:   %d\n", st.Elements)
	fmt.Printf("Categories: %d\n", st.Categories)
	fmt.Printf("Materials:  %d\n", st.Materials)
	fmt.Printf("Types:      %d\n", st.Types)
	fmt.Printf("Links:      %d\n", st.Links)
	fmt.Printf("Triangles:  %d\n", st.Facets)

	// Count elements per category
	perCategory := make(map[string]int)
	for _, e := range doc.Elements {
		name := e.CategoryName()
		if name == "" {
			name = "(none)"
		}
		perCategory[name]++
	}
	names := make([]string, 0, len(perCategory))
	for name := range perCategory {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if perCategory[names[i]] != perCategory[names[j]] {
			return perCategory[names[i]] > perCategory[names[j]]
		}
		return names[i] < names[j]
	})

	fmt.Println()
	fmt.Println("Elements by category:")
	for _, name := range names {
		fmt.Printf("  %-24s %d\n", name, perCategory[name])
	}

	if cams := cameras.Collect(doc); len(cams) > 0 {
		fmt.Println()
		fmt.Println("Cameras:")
		for _, c := range cams {
			fmt.Printf("  %-24s eye %s  dir %s\n", c.Name, c.Position, c.Target)
		}
	}

	if len(doc.Links) > 0 {
		fmt.Println()
		fmt.Println("Links:")
		for _, l := range doc.Links {
			fmt.Printf("  %-24s %s (%d elements)\n", l.Name, l.Document.Title, len(l.Document.Elements))
		}
	}
}

func cmdConfig(args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	save := fs.Bool("save", false, "Save to the user config directory")
	cfg := setup(fs, args)
	defer logger.Sync()

	data, err := cfg.Marshal()
	if err != nil {
		fatal(err)
	}
	os.Stdout.Write(data)

	if *save {
		path, err := cfg.Save()
		if err != nil {
			fatal(err)
		}
		fmt.Fprintf(os.Stderr, "Saved %s\n", path)
	}
}

func printResult(res result) {
	st := res.Stats
	fmt.Printf("%s -> %s: %d elements, %d materials, %d geometries, %d triangles, %d vertices",
		res.Input, res.Output, st.Elements, st.Materials, st.Geometries, st.Triangles, st.Vertices)
	if st.Faults > 0 {
		fmt.Printf(", %d faults", st.Faults)
	}
	fmt.Printf(" (%s)\n", res.Duration.Round(time.Millisecond))
}

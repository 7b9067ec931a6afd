package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"eightd/internal/pipeline"
	"eightd/internal/render"
	"eightd/internal/report"
)

var renderFlags struct {
	lang string
	out  string
	pdf  bool
}

var renderCmd = &cobra.Command{
	Use:   "render REPORT.json",
	Short: "Render an authored report to print-ready HTML",
	Long: `Render a report saved as JSON (the "report" object of a session) to a
self-contained HTML page. A non-native --lang translates the report body
with the configured model first. --pdf prints the page with a local
headless Chrome instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.StringVar(&renderFlags.lang, "lang", "", "Target language tag, label or name (default: native)")
	f.StringVarP(&renderFlags.out, "out", "o", ".", "Output directory")
	f.BoolVar(&renderFlags.pdf, "pdf", false, "Write a PDF via headless Chrome")
}

func runRender(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	m := report.New()
	if err := json.Unmarshal(raw, m); err != nil {
		return fmt.Errorf("parse %s: %w", args[0], err)
	}
	m.Normalize()

	catalog, err := loadCatalog()
	if err != nil {
		return err
	}
	target, err := catalog.Lookup(renderFlags.lang)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	view := render.NewReportView(m, now())
	var buf bytes.Buffer
	if target.Native {
		err = render.HTML(&buf, view)
	} else {
		cli, done, cerr := newClient(ctx, log.New(cmd.ErrOrStderr(), "", log.LstdFlags))
		if cerr != nil {
			return cerr
		}
		defer done()
		tr := &pipeline.Translator{LLM: cli, Catalog: catalog}
		body, terr := tr.Translate(ctx, m.Markdown(view.Actions), target.Tag)
		if terr != nil {
			return terr
		}
		err = render.TranslatedHTML(&buf, view.Title(), body)
	}
	if err != nil {
		return err
	}

	name, data := render.HTMLFileName(view.Title(), target), buf.Bytes()
	if renderFlags.pdf {
		printer := &render.PDFPrinter{Timeout: time.Minute}
		if data, err = printer.Print(ctx, buf.String()); err != nil {
			return err
		}
		name = render.PDFFileName(view.Title(), target)
	}
	path, err := writeOutput(renderFlags.out, name, data)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

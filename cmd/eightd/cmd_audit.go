package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"eightd/internal/audit"
	"eightd/internal/ingest"
	"eightd/internal/language"
	"eightd/internal/pipeline"
	"eightd/internal/render"
)

var auditFlags struct {
	lang string
	out  string
	jobs int
}

var auditCmd = &cobra.Command{
	Use:   "audit FILE...",
	Short: "Extract, evaluate and export 8D reports as Word documents",
	Long: `Audit one or more 8D report files (.txt, .md or .pdf). Each file is
extracted into the fixed schema, evaluated, optionally translated, and
written as a .docx document.

Files are processed concurrently; a failing file does not stop the others.
The model backend is configured through LLM_PROVIDER, LLM_API_KEY and
related environment variables (a .env file is read when present).

Usage:
  eightd audit report.txt
  eightd audit --lang en --out exports a.txt b.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAudit,
}

func init() {
	f := auditCmd.Flags()
	f.StringVar(&auditFlags.lang, "lang", "", "Target language tag, label or name (default: native)")
	f.StringVarP(&auditFlags.out, "out", "o", ".", "Output directory")
	f.IntVarP(&auditFlags.jobs, "jobs", "j", 2, "Files audited at the same time")
}

type auditOutcome struct {
	file string
	path string
	err  error
}

func runAudit(cmd *cobra.Command, args []string) error {
	logger := log.New(cmd.ErrOrStderr(), "", log.LstdFlags)
	catalog, err := loadCatalog()
	if err != nil {
		return err
	}
	target, err := catalog.Lookup(auditFlags.lang)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cli, done, err := newClient(ctx, logger)
	if err != nil {
		return err
	}
	defer done()
	auditor := pipeline.NewAuditor(cli, catalog)

	outcomes := make([]auditOutcome, len(args))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(auditFlags.jobs, 1))
	for i, file := range args {
		g.Go(func() error {
			dir := auditFlags.out
			if len(args) > 1 {
				dir = filepath.Join(dir, strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)))
			}
			path, err := auditFile(gctx, auditor, file, target, dir)
			outcomes[i] = auditOutcome{file: file, path: path, err: err}
			return nil
		})
	}
	_ = g.Wait() // errors captured per file

	var errs []error
	for _, o := range outcomes {
		if o.err != nil {
			logger.Printf("audit %s: %v", o.file, o.err)
			errs = append(errs, fmt.Errorf("%s: %w", o.file, o.err))
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), o.path)
	}
	return errors.Join(errs...)
}

// auditFile runs one file through the pipeline with its own audit state.
func auditFile(ctx context.Context, a *pipeline.Auditor, file string, target language.Language, dir string) (string, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}
	text, err := ingest.Decode(filepath.Base(file), data, ingest.LedongthucPDF{})
	if err != nil {
		return "", err
	}
	var res audit.Result
	if err := a.Run(ctx, text, &res); err != nil {
		return "", err
	}
	if !target.Native {
		if _, err := a.Translate(ctx, &res, target.Tag); err != nil {
			return "", err
		}
	}
	when := now()
	doc := render.AuditDocument(render.AuditExport{
		Extracted:   *res.Extracted,
		Evaluation:  *res.Evaluation,
		Translation: res.Translation,
	}, when)
	raw, err := doc.Bytes()
	if err != nil {
		return "", err
	}
	return writeOutput(dir, render.DocxFileName(target, when), raw)
}

// Package docdiff computes a structured, deterministic diff between two
// semi-structured documents made of text blocks, tables and embedded
// images, and the side-by-side geometry to inspect it visually. The
// engine consumes the model package's data model, already populated by an
// extractor; it never parses raw file bytes and performs no I/O.
package docdiff

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"docdiff/imagediff"
	"docdiff/model"
	"docdiff/tablediff"
	"docdiff/textdiff"
)

var log = logrus.New()

// SetLogLevel adjusts engine log verbosity ("debug", "info", "warn",
// "error"); anything else selects info.
func SetLogLevel(level string) {
	switch strings.ToLower(level) {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "info":
		log.SetLevel(logrus.InfoLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
}

// Engine runs document comparisons. Safe for concurrent use; each
// comparison works on its own data and shares nothing across requests.
type Engine struct {
	cfg Config
}

// New creates an engine with the given configuration.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Engine{cfg: cfg}, nil
}

// Compare diffs two documents and returns the complete, deterministic
// result. Pages are processed concurrently up to the configured
// parallelism; if the context is cancelled or a worker fails, Compare
// returns a PartialResultError naming the affected pages instead of a
// truncated result.
func (e *Engine) Compare(ctx context.Context, a, b *model.Document) (*model.DiffResult, error) {
	if err := validateDocument(a); err != nil {
		return nil, err
	}
	if err := validateDocument(b); err != nil {
		return nil, err
	}

	pages := a.PageCount()
	if b.PageCount() > pages {
		pages = b.PageCount()
	}

	logger := log.WithFields(logrus.Fields{
		"run_id": uuid.NewString(),
		"doc_a":  a.Label,
		"doc_b":  b.Label,
		"pages":  pages,
	})
	logger.Debug("starting comparison")

	pageDiffs := make([][]model.ChangeRecord, pages)
	pageErrs := make([]error, pages)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Parallelism)
	for n := 0; n < pages; n++ {
		n := n
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				pageErrs[n] = err
				return err
			}
			pageDiffs[n] = e.comparePage(n, pageOf(a, n), pageOf(b, n), logger)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		perr := newPartialResultError(pageErrs)
		if len(perr.Pages) == 0 {
			return nil, fmt.Errorf("page processing failed: %w", err)
		}
		logger.WithField("failed_pages", perr.Pages).Warn("comparison incomplete")
		return nil, perr
	}

	result := Assemble(pageDiffs...)
	logger.WithFields(logrus.Fields{
		"records": len(result.Records),
		"changed": result.HasChanges(),
	}).Debug("comparison finished")
	return result, nil
}

// Merge lays the two documents' pages side by side. When highlighting is
// enabled in the config and a diff result is given, non-Equal change
// regions are projected onto the merged geometry.
func (e *Engine) Merge(a, b *model.Document, diff *model.DiffResult) ([]MergedPage, error) {
	if err := validateDocument(a); err != nil {
		return nil, err
	}
	if err := validateDocument(b); err != nil {
		return nil, err
	}
	if !e.cfg.HighlightEnabled {
		diff = nil
	}
	return MergePages(a, b, diff), nil
}

func validateDocument(doc *model.Document) error {
	if doc == nil {
		return &StructuralMismatchError{Label: "", Reason: "document is nil"}
	}
	if doc.PageCount() == 0 {
		return &StructuralMismatchError{Label: doc.Label, Reason: "document has zero pages"}
	}
	return nil
}

// pageOf returns page n of the document, or an empty placeholder page
// when the document is shorter. Against a placeholder every element of
// the counterpart page becomes a pure insert or delete.
func pageOf(doc *model.Document, n int) *model.Page {
	if n < doc.PageCount() {
		return &doc.Pages[n]
	}
	return &model.Page{Index: n}
}

// comparePage diffs the text blocks, tables and images of one page pair.
// The three streams are independent; ordering happens in Assemble.
func (e *Engine) comparePage(n int, pageA, pageB *model.Page, logger *logrus.Entry) []model.ChangeRecord {
	records := e.textRecords(n, pageA, pageB, logger)
	records = append(records, tablediff.Diff(n, pageA.Tables, pageB.Tables, tablediff.Options{
		Policy:       e.cfg.Normalization,
		RowThreshold: e.cfg.RowSimilarityThreshold,
		ContextSize:  e.cfg.ContextSize,
	})...)
	records = append(records, imagediff.Match(n, pageA.Images, pageB.Images, imagediff.Options{
		Threshold: e.cfg.ImageSimilarityThreshold,
	})...)
	return records
}

// textRecords aligns the text blocks of one page pair. Blocks pair up by
// the same signature alignment used for table rows; a matched-but-modified
// pair carries the token edit script with context.
func (e *Engine) textRecords(n int, pageA, pageB *model.Page, logger *logrus.Entry) []model.ChangeRecord {
	tokensA := make([][]string, len(pageA.TextBlocks))
	for i, block := range pageA.TextBlocks {
		tokensA[i] = e.cfg.Normalization.Tokenize(block.Text)
	}
	tokensB := make([][]string, len(pageB.TextBlocks))
	for i, block := range pageB.TextBlocks {
		tokensB[i] = e.cfg.Normalization.Tokenize(block.Text)
	}

	var records []model.ChangeRecord
	for _, pair := range textdiff.MatchSequences(tokensA, tokensB, e.cfg.RowSimilarityThreshold) {
		rec := model.ChangeRecord{
			Kind:       model.KindText,
			Op:         pair.Op,
			Similarity: pair.Similarity,
			Text:       &model.TextDetail{BlockA: pair.A, BlockB: pair.B},
		}
		if pair.A >= 0 {
			rec.A = &model.Location{Page: n, BBox: pageA.TextBlocks[pair.A].BBox}
		}
		if pair.B >= 0 {
			rec.B = &model.Location{Page: n, BBox: pageB.TextBlocks[pair.B].BBox}
		}
		if pair.Op == model.OpReplace {
			rec.Text.Script = textdiff.Align(tokensA[pair.A], tokensB[pair.B], e.cfg.ContextSize)
			if degraded(rec.Text.Script) {
				logger.WithFields(logrus.Fields{
					"page":    n,
					"block_a": pair.A,
					"block_b": pair.B,
				}).Warn("degraded text alignment: no common tokens")
			}
		}
		records = append(records, rec)
	}
	return records
}

// degraded reports a script that collapsed to a whole-sequence replace.
func degraded(script []model.EditOp) bool {
	return len(script) == 1 && script[0].Op == model.OpReplace
}

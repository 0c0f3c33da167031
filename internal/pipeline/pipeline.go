// Package pipeline orchestrates a scan: acquire content, extract candidate
// secrets, deduplicate, then run the optional AI and live validation stages.
package pipeline

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sensit/sensit/internal/aivalidate"
	"github.com/sensit/sensit/internal/extract"
	"github.com/sensit/sensit/internal/livecheck"
	"github.com/sensit/sensit/internal/source"
	"github.com/sensit/sensit/internal/types"
)

// Options configures one scan run.
type Options struct {
	// MinConfidence filters which secrets proceed to live validation and
	// which are flagged below threshold in logs. All extracted secrets stay
	// in the result regardless.
	MinConfidence float64
}

// Pipeline wires the scan stages together. AI and Live are optional; a nil
// or disabled stage is skipped.
type Pipeline struct {
	Matcher  *extract.Matcher
	Analyzer *extract.Analyzer
	AI       *aivalidate.Validator
	Live     *livecheck.Validator
	Opts     Options
	Log      logrus.FieldLogger
}

// Run scans one target through src. Per-unit failures are logged and
// skipped; the scan continues. On context cancellation the partial result
// accumulated so far is returned along with the context error.
func (p *Pipeline) Run(ctx context.Context, src source.Source, target string) (*types.ScanResult, error) {
	started := time.Now()
	result := types.NewScanResult(target)

	var extracted []*types.Secret
	err := src.Acquire(ctx, target, func(location, content string) {
		result.FilesScanned++
		found := p.extractUnit(content, location)
		extracted = append(extracted, found...)
		if len(found) > 0 {
			p.Log.WithFields(logrus.Fields{"location": location, "candidates": len(found)}).Debug("extracted candidates")
		}
	})

	for _, s := range extracted {
		p.Analyzer.Refresh(s)
	}
	deduped := extract.Dedupe(extracted)
	p.Log.WithFields(logrus.Fields{
		"extracted": len(extracted),
		"unique":    len(deduped),
	}).Info("extraction complete")

	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		// Partial result: skip the network stages, report what we have.
		p.finish(result, deduped, started)
		return result, err
	}

	if p.AI != nil && p.AI.Enabled() {
		p.AI.ValidateAll(ctx, deduped)
	}

	candidates := p.overThreshold(deduped)
	if p.Live != nil && len(candidates) > 0 {
		p.Live.ValidateAll(ctx, candidates)
	}

	p.finish(result, deduped, started)
	return result, ctx.Err()
}

func (p *Pipeline) extractUnit(content, location string) []*types.Secret {
	found := p.Matcher.FindMatches(content, location)
	return append(found, p.Analyzer.FindHighEntropy(content, location)...)
}

// overThreshold selects secrets eligible for live validation. When AI
// scoring is off every secret qualifies; otherwise only those at or above
// the confidence floor. Below-threshold secrets stay in the result.
func (p *Pipeline) overThreshold(secrets []*types.Secret) []*types.Secret {
	if p.AI == nil || !p.AI.Enabled() || p.Opts.MinConfidence <= 0 {
		return secrets
	}
	var out []*types.Secret
	for _, s := range secrets {
		if s.AIConfidence >= p.Opts.MinConfidence {
			out = append(out, s)
			continue
		}
		p.Log.WithFields(logrus.Fields{
			"type":       s.RuleType,
			"location":   s.Location,
			"confidence": s.AIConfidence,
		}).Debug("below confidence threshold, skipping live check")
	}
	return out
}

func (p *Pipeline) finish(result *types.ScanResult, secrets []*types.Secret, started time.Time) {
	for _, s := range secrets {
		result.Add(s)
	}
	result.Duration = time.Since(started)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/vibecraft/cadbook/internal/core/domain"
	"github.com/vibecraft/cadbook/internal/core/ports/driven"
	"github.com/vibecraft/cadbook/internal/core/ports/driving"
	"github.com/vibecraft/cadbook/internal/logger"
)

// Ensure Consolidator implements the interface.
var _ driving.ConsolidationService = (*Consolidator)(nil)

const (
	// handbookDateLayout renders e.g. "March 04, 2026".
	handbookDateLayout = "January 02, 2006"

	tocHeading = "## 📚 Table of Contents"
	pageBreak  = "<div style='page-break-after: always;'></div>"

	// DefaultWatchDebounce is how long Watch waits for changes to settle.
	DefaultWatchDebounce = 500 * time.Millisecond
)

// Consolidator merges instruction files into one handbook.
type Consolidator struct {
	store    driven.InstructionStore
	writer   driven.HandbookWriter
	watcher  driven.DirectoryWatcher
	settings domain.HandbookSettings
	rules    domain.SequenceRules

	now      func() time.Time
	debounce time.Duration
}

// NewConsolidator creates a new consolidator.
// watcher is optional - if nil, Watch is unavailable.
func NewConsolidator(
	store driven.InstructionStore,
	writer driven.HandbookWriter,
	watcher driven.DirectoryWatcher,
	settings domain.HandbookSettings,
) *Consolidator {
	return &Consolidator{
		store:    store,
		writer:   writer,
		watcher:  watcher,
		settings: settings,
		rules:    domain.NewSequenceRules(settings.SequenceKeywords),
		now:      time.Now,
		debounce: DefaultWatchDebounce,
	}
}

// Consolidate builds the handbook from req.InputDir and writes it.
func (c *Consolidator) Consolidate(
	ctx context.Context,
	req driving.ConsolidateRequest,
) (*driving.ConsolidateResult, error) {
	if c.store == nil || c.writer == nil {
		return nil, fmt.Errorf("consolidate: instruction store not configured")
	}
	req = c.withDefaults(req)
	done := logger.Timed("consolidate %s", req.InputDir)
	defer done()

	docs, err := c.plan(ctx, req.InputDir, req.OutputPath)
	if err != nil {
		return nil, err
	}

	handbook := &domain.Handbook{
		Title:    req.Title,
		Subtitle: req.Subtitle,
		Date:     c.now(),
		Sections: make([]domain.HandbookSection, 0, len(docs)),
	}

	anchors := make(map[string]int, len(docs))
	for _, doc := range docs {
		content, err := c.store.Read(ctx, doc.Path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", doc.Name, err)
		}

		title := doc.Title
		if content.Title != "" {
			title = content.Title
		}
		body, titleOnly := stripTitleLine(content.Body)
		handbook.Sections = append(handbook.Sections, domain.HandbookSection{
			Title:     title,
			Anchor:    uniqueAnchor(anchors, domain.AnchorFromTitle(title)),
			Source:    doc.Path,
			Body:      body,
			TitleOnly: titleOnly,
		})
	}

	rendered := RenderHandbook(handbook)
	if err := c.writer.WriteHandbook(ctx, req.OutputPath, rendered); err != nil {
		return nil, err
	}
	logger.Info("consolidated %d manuals into %s", len(handbook.Sections), req.OutputPath)

	return &driving.ConsolidateResult{
		OutputPath: req.OutputPath,
		Handbook:   handbook,
		Bytes:      len(rendered),
	}, nil
}

// Plan returns the instruction files in handbook order.
func (c *Consolidator) Plan(ctx context.Context, inputDir string) ([]domain.InstructionDocument, error) {
	if c.store == nil {
		return nil, fmt.Errorf("plan: instruction store not configured")
	}
	req := c.withDefaults(driving.ConsolidateRequest{InputDir: inputDir})
	return c.plan(ctx, req.InputDir, req.OutputPath)
}

// plan lists and orders the inputs, leaving out the handbook itself.
func (c *Consolidator) plan(ctx context.Context, inputDir, outputPath string) ([]domain.InstructionDocument, error) {
	docs, err := c.store.List(ctx, inputDir, c.settings.Suffix)
	if err != nil {
		return nil, err
	}

	output := absPath(outputPath)
	kept := docs[:0]
	for _, doc := range docs {
		if absPath(doc.Path) == output {
			logger.Debug("skipping handbook output %s", doc.Path)
			continue
		}
		kept = append(kept, doc)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return c.rules.Less(kept[i].Name, kept[j].Name)
	})
	return kept, nil
}

// Watch consolidates once and then after every settled burst of changes.
func (c *Consolidator) Watch(
	ctx context.Context,
	req driving.ConsolidateRequest,
	onBuild func(*driving.ConsolidateResult, error),
) error {
	if c.watcher == nil {
		return fmt.Errorf("watch: directory watcher not configured")
	}
	req = c.withDefaults(req)
	if onBuild == nil {
		onBuild = func(*driving.ConsolidateResult, error) {}
	}

	result, err := c.Consolidate(ctx, req)
	if errors.Is(err, domain.ErrInputDirMissing) {
		return err
	}
	onBuild(result, err)

	events, err := c.watcher.Watch(ctx, req.InputDir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", req.InputDir, err)
	}
	logger.Info("watching %s for changes", req.InputDir)

	output := absPath(req.OutputPath)
	timer := time.NewTimer(c.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(path, c.settings.Suffix) || absPath(path) == output {
				continue
			}
			logger.Debug("change: %s", path)
			timer.Reset(c.debounce)
		case <-timer.C:
			result, err := c.Consolidate(ctx, req)
			if ctx.Err() != nil {
				return nil
			}
			onBuild(result, err)
		}
	}
}

// withDefaults fills empty request fields from settings.
func (c *Consolidator) withDefaults(req driving.ConsolidateRequest) driving.ConsolidateRequest {
	if req.InputDir == "" {
		req.InputDir = "."
	}
	if req.OutputPath == "" {
		req.OutputPath = c.settings.Output
	}
	if req.Title == "" {
		req.Title = c.settings.Title
	}
	if req.Subtitle == "" {
		req.Subtitle = c.settings.Subtitle
	}
	return req
}

// RenderHandbook renders the handbook Markdown: title block, table of
// contents, then one page per section.
func RenderHandbook(h *domain.Handbook) []byte {
	lines := make([]string, 0, 12+len(h.Sections)*8)

	lines = append(lines, "# "+h.Title)
	if h.Subtitle != "" {
		lines = append(lines, "> **"+h.Subtitle+"**")
	}
	lines = append(lines,
		"> Date: "+h.Date.Format(handbookDateLayout),
		"",
		"---",
		"",
		tocHeading,
	)
	for _, s := range h.Sections {
		lines = append(lines, fmt.Sprintf("- [%s](#%s)", s.Title, s.Anchor))
	}
	lines = append(lines, "", "---", pageBreak, "")

	for _, s := range h.Sections {
		lines = append(lines,
			fmt.Sprintf("<a name='%s'></a>", s.Anchor),
			"## "+s.Title,
		)
		if !s.TitleOnly {
			lines = append(lines, s.Body)
		}
		lines = append(lines,
			"",
			"---",
			pageBreak,
			"",
		)
	}

	return []byte(strings.Join(lines, "\n"))
}

// stripTitleLine drops the first line when it is a top-level heading.
// The flag reports that nothing, not even an empty line, follows it.
func stripTitleLine(body string) (string, bool) {
	first, rest, found := strings.Cut(body, "\n")
	if !strings.HasPrefix(first, "# ") {
		return body, false
	}
	if !found {
		return "", true
	}
	return rest, false
}

// uniqueAnchor returns anchor, or anchor-N when it was already used.
func uniqueAnchor(seen map[string]int, anchor string) string {
	seen[anchor]++
	n := seen[anchor]
	if n == 1 {
		return anchor
	}
	for {
		candidate := anchor + "-" + strconv.Itoa(n)
		if seen[candidate] == 0 {
			seen[candidate] = 1
			return candidate
		}
		n++
	}
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/jomei/notionapi"
	"go.uber.org/zap"

	"notion-to-markdown/internal/notion"
)

type Source interface {
	DatabasePages(ctx context.Context, databaseID string) ([]notionapi.Page, error)
	BlockChildren(ctx context.Context, containerID string) ([]notionapi.Block, error)
}

type Exporter struct {
	Source       Source
	Log          *zap.Logger
	ShowProgress bool
}

type Stats struct {
	Pages int
	Bytes int
}

const sectionSeparator = "\n\n---\n\n"

func (e Exporter) Run(ctx context.Context, db notion.Database, outputPath string) (Stats, error) {
	if e.Source == nil {
		return Stats{}, fmt.Errorf("data source is required")
	}
	if outputPath == "" {
		return Stats{}, fmt.Errorf("output path is required")
	}

	pages, err := e.Source.DatabasePages(ctx, db.ID)
	if err != nil {
		return Stats{}, fmt.Errorf("query database %s: %w", db.ID, err)
	}
	if len(pages) == 0 {
		return Stats{}, nil
	}

	doc := e.buildDocument(ctx, db, pages)

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Stats{}, fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, []byte(doc), 0o644); err != nil {
		return Stats{}, fmt.Errorf("write document: %w", err)
	}

	e.logger().Debug("document written",
		zap.String("path", outputPath),
		zap.Int("pages", len(pages)),
		zap.Int("bytes", len(doc)))
	return Stats{Pages: len(pages), Bytes: len(doc)}, nil
}

func (e Exporter) buildDocument(ctx context.Context, db notion.Database, pages []notionapi.Page) string {
	bar := newExportProgress(len(pages), e.ShowProgress)
	defer bar.Close()

	sections := make([]string, 0, len(pages)+1)
	sections = append(sections, documentHeader(db, len(pages), time.Now()))
	for _, page := range pages {
		sections = append(sections, e.renderPage(ctx, page))
		bar.Advance(pageTitle(page))
	}
	bar.Finish("done")

	return strings.Join(sections, sectionSeparator) + "\n"
}

func documentHeader(db notion.Database, entries int, now time.Time) string {
	title := db.Title
	if title == "" {
		title = "Untitled"
	}

	var b strings.Builder
	b.WriteString("# " + title + "\n\n")
	if db.Description != "" {
		b.WriteString(db.Description + "\n\n")
	}
	b.WriteString("Exported: " + now.Format("2006-01-02") + "\n")
	b.WriteString("Entries: " + strconv.Itoa(entries) + "\n")
	b.WriteString("Source: " + db.URL)
	return b.String()
}

func (e Exporter) renderPage(ctx context.Context, page notionapi.Page) string {
	header := "# " + pageHeading(page)
	if properties := renderPropertyLines(page.Properties); properties != "" {
		header += "\n" + properties
	}

	sections := []string{header}
	body, err := e.renderChildren(ctx, string(page.ID), 0)
	if err != nil {
		e.logger().Warn("page content fetch failed",
			zap.String("page_id", string(page.ID)),
			zap.Error(err))
		sections = append(sections, "*[Could not fetch page content: "+err.Error()+"]*")
	} else if body != "" {
		sections = append(sections, body)
	}
	sections = append(sections, "*Source: [View in Notion]("+page.URL+")*")

	return strings.Join(sections, "\n\n")
}

func renderPropertyLines(properties notionapi.Properties) string {
	names := make([]string, 0, len(properties))
	for name, prop := range properties {
		if _, ok := prop.(*notionapi.TitleProperty); ok {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		value := renderProperty(properties[name])
		if value == "" {
			continue
		}
		lines = append(lines, "**"+name+":** "+value)
	}
	return strings.Join(lines, "  \n")
}

func pageHeading(page notionapi.Page) string {
	for _, prop := range page.Properties {
		if title, ok := prop.(*notionapi.TitleProperty); ok {
			if text := renderRichText(title.Title); text != "" {
				return text
			}
		}
	}
	return "Untitled"
}

// pageTitle is the plain-text twin of pageHeading, for progress labels.
func pageTitle(page notionapi.Page) string {
	for _, prop := range page.Properties {
		if title, ok := prop.(*notionapi.TitleProperty); ok {
			if text := plainText(title.Title); text != "" {
				return text
			}
		}
	}
	return "Untitled"
}

func (e Exporter) logger() *zap.Logger {
	if e.Log != nil {
		return e.Log
	}
	return zap.NewNop()
}

type exportProgress struct {
	enabled         bool
	total           int
	current         int
	lastRenderWidth int
	label           string
	bar             progress.Model
}

func newExportProgress(total int, show bool) exportProgress {
	if total <= 0 {
		total = 1
	}
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = 36

	if cols, err := strconv.Atoi(strings.TrimSpace(os.Getenv("COLUMNS"))); err == nil && cols > 0 {
		width := cols - 40
		if width < 16 {
			width = 16
		}
		if width > 64 {
			width = 64
		}
		bar.Width = width
	}

	return exportProgress{
		enabled: show && isTerminal(os.Stderr),
		total:   total,
		bar:     bar,
	}
}

func (p *exportProgress) Advance(label string) {
	if !p.enabled {
		return
	}
	p.current++
	if p.current > p.total {
		p.current = p.total
	}
	p.label = label
	p.render()
}

func (p *exportProgress) Finish(label string) {
	if !p.enabled {
		return
	}
	p.current = p.total
	p.label = label
	p.render()
	fmt.Fprint(os.Stderr, "\n")
	p.lastRenderWidth = 0
}

func (p *exportProgress) Close() {
	if !p.enabled {
		return
	}
	if p.lastRenderWidth > 0 {
		fmt.Fprint(os.Stderr, "\n")
		p.lastRenderWidth = 0
	}
}

func (p *exportProgress) render() {
	percent := float64(p.current) / float64(p.total)
	if percent < 0 {
		percent = 0
	}
	if percent > 1 {
		percent = 1
	}
	line := fmt.Sprintf("%s %3.0f%% %d/%d %s", p.bar.ViewAs(percent), percent*100, p.current, p.total, strings.TrimSpace(p.label))
	pad := ""
	if p.lastRenderWidth > len(line) {
		pad = strings.Repeat(" ", p.lastRenderWidth-len(line))
	}
	fmt.Fprintf(os.Stderr, "\r%s%s", line, pad)
	p.lastRenderWidth = len(line)
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv("TERM")), "dumb") {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

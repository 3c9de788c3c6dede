// Package report renders the outcome of a crawl run for humans.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"

	"ArtworksCrawler/internal/domain"
)

// SummaryLine is the one-line result printed when a run completes.
func SummaryLine(result domain.CrawlResult, destination string) string {
	return fmt.Sprintf("Exported %d artworks to %s (%d of %d handles failed)",
		len(result.Records), destination, result.Failed(), len(result.Outcomes))
}

// NotificationText is the plain-text message sent to chat notifiers.
func NotificationText(result domain.CrawlResult, destination string) string {
	var b strings.Builder
	b.WriteString(SummaryLine(result, destination))
	if failed := result.FailedHandles(); len(failed) > 0 {
		b.WriteString("\nFailed: ")
		b.WriteString(strings.Join(failed, ", "))
	}
	if len(result.Records) == 0 {
		b.WriteString("\nWarning: the artifact is empty")
	}
	return b.String()
}

// WriteMarkdown renders a per-handle run report.
func WriteMarkdown(w io.Writer, result domain.CrawlResult, destination string) error {
	md := markdown.NewMarkdown(w)

	md.H1("Artworks crawl report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run ID", "`" + result.RunID + "`"},
			{"Started", result.StartedAt.UTC().Format("2006-01-02 15:04:05 MST")},
			{"Duration", result.Duration().Round(time.Millisecond).String()},
			{"Destination", "`" + destination + "`"},
			{"Records", strconv.Itoa(len(result.Records))},
			{"Failed handles", strconv.Itoa(result.Failed())},
		},
	})
	md.PlainText("")

	md.H2("Handles")
	md.PlainText("")
	rows := make([][]string, 0, len(result.Outcomes))
	for _, o := range result.Outcomes {
		status, detail := "ok", ""
		if !o.OK() {
			status, detail = "failed", escapeCell(o.Err.Error())
		} else if o.Records == 0 {
			status = "empty"
		}
		rows = append(rows, []string{o.Handle, status, strconv.Itoa(o.Records), detail})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Handle", "Status", "Records", "Error"},
		Rows:   rows,
	})
	md.PlainText("")

	if len(result.Records) == 0 {
		md.Warningf("No artworks were extracted in this run.")
	}

	return md.Build()
}

// WriteMarkdownFile writes the report to path, creating parent directories.
func WriteMarkdownFile(path string, result domain.CrawlResult, destination string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := WriteMarkdown(f, result, destination); err != nil {
		_ = f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	return f.Close()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

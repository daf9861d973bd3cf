package report

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-platform-test/sysinfo"
	"github.com/bitrise-steplib/steps-platform-test/testresult"
	"github.com/google/renameio/v2"
)

const (
	// MaxMessageLength is the number of failure message characters shown per test case.
	MaxMessageLength = 200
	// MaxLogLength is the number of trailing log characters shown in the report.
	MaxLogLength = 2000
	// NoLogsPlaceholder is shown instead of an empty log.
	NoLogsPlaceholder = "No logs available."

	dateLayout = "2006-01-02 15:04:05.000000"
)

// Data is everything a report is rendered from.
type Data struct {
	Summary     testresult.Summary
	Logs        string
	GeneratedAt time.Time
	System      *sysinfo.Info
}

// Renderer writes a static HTML report.
type Renderer interface {
	Render(data Data, pth string) error
}

type renderer struct {
	logger   log.Logger
	template *template.Template
}

// NewRenderer ...
func NewRenderer(logger log.Logger) Renderer {
	return &renderer{
		logger:   logger,
		template: template.Must(template.New("report").Parse(reportTemplate)),
	}
}

type page struct {
	Date     string
	Total    int
	Failures int
	Time     string
	System   *sysinfo.Info
	Rows     []row
	Logs     string
}

type row struct {
	ClassName   string
	Name        string
	Status      testresult.Status
	StatusClass string
	Message     string
}

// Render overwrites pth.
func (r renderer) Render(data Data, pth string) error {
	content, err := r.render(data)
	if err != nil {
		return err
	}

	if err := renameio.WriteFile(pth, content, 0644); err != nil {
		return fmt.Errorf("failed to write report (%s): %w", pth, err)
	}

	r.logger.Debugf("Report written to: %s", pth)

	return nil
}

func (r renderer) render(data Data) ([]byte, error) {
	p := page{
		Date:     data.GeneratedAt.Format(dateLayout),
		Total:    data.Summary.Total,
		Failures: data.Summary.Failed(),
		Time:     data.Summary.Time,
		System:   data.System,
		Logs:     NoLogsPlaceholder,
	}

	for _, test := range data.Summary.Tests {
		statusClass := "pass"
		if test.Status != testresult.StatusPass {
			statusClass = "fail"
		}

		p.Rows = append(p.Rows, row{
			ClassName:   test.ClassName,
			Name:        test.Name,
			Status:      test.Status,
			StatusClass: statusClass,
			Message:     firstRunes(test.Message, MaxMessageLength),
		})
	}

	if len(data.Logs) > 0 {
		p.Logs = lastRunes(data.Logs, MaxLogLength)
	}

	var buf bytes.Buffer
	if err := r.template.Execute(&buf, p); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	return buf.Bytes(), nil
}

func firstRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func lastRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}

package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/dep2p/go-linkdiag/pkg/types"
)

// Option 文本渲染选项
type Option func(*textWriter)

// WithColor 为状态列着色
func WithColor(on bool) Option {
	return func(t *textWriter) { t.color = on }
}

type textWriter struct {
	w     io.Writer
	color bool
	err   error
}

func (t *textWriter) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

// 各状态使用同长度的转义序列，tabwriter 对齐不受影响
var severityColors = map[types.Severity]color.Attribute{
	types.SeverityOK:   color.FgGreen,
	types.SeverityInfo: color.FgCyan,
	types.SeverityNA:   color.FgWhite,
	types.SeverityWarn: color.FgYellow,
	types.SeverityFail: color.FgRed,
}

func (t *textWriter) status(s types.Severity) string {
	if !t.color {
		return s.String()
	}
	c := color.New(severityColors[s])
	c.EnableColor()
	return c.Sprint(s.String())
}

// WriteText 以文本格式写出报告
func WriteText(w io.Writer, r *types.Report, opts ...Option) error {
	t := &textWriter{w: w}
	for _, o := range opts {
		o(t)
	}

	t.header(r)
	t.table(r.Checks)
	t.rollup(r.Checks)
	t.components(r.Diagnosis)
	t.rootCause(r.Diagnosis)
	return t.err
}

func (t *textWriter) header(r *types.Report) {
	t.printf("Link diagnosis %s\n", r.SessionID)
	if !r.Started.IsZero() {
		t.printf("Started %s, took %s\n", r.Started.Format(time.RFC3339), r.Finished.Sub(r.Started).Round(time.Millisecond))
	}
	t.printf("Session state: %s    Overall: %s\n\n", r.State, t.status(r.Overall))
}

func (t *textWriter) table(checks []types.CheckRecord) {
	if t.err != nil {
		return
	}
	tw := tabwriter.NewWriter(t.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCHECK\tSTATUS\tDETAIL")
	for i, c := range checks {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, c.Name, t.status(c.Severity), oneLine(c.Detail))
	}
	t.err = tw.Flush()
	t.printf("\n")
}

// rollup 分级汇总，INFO 与 N/A 单独计数
func (t *textWriter) rollup(checks []types.CheckRecord) {
	counts := map[types.Severity]int{}
	for _, c := range checks {
		counts[c.Severity]++
	}
	t.printf("Summary: %d passed, %d warnings, %d failed, %d info, %d not run\n\n",
		counts[types.SeverityOK], counts[types.SeverityWarn], counts[types.SeverityFail],
		counts[types.SeverityInfo], counts[types.SeverityNA])
}

func (t *textWriter) components(d types.DiagnosisResult) {
	if len(d.WorkingComponents) > 0 {
		t.printf("Working components:\n")
		for _, c := range d.WorkingComponents {
			t.printf("  + %s\n", c)
		}
	}
	if len(d.ProblemAreas) > 0 {
		t.printf("Problem areas:\n")
		for _, p := range d.ProblemAreas {
			t.printf("  - %s\n", oneLine(p))
		}
	}
	if len(d.WorkingComponents)+len(d.ProblemAreas) > 0 {
		t.printf("\n")
	}
}

func (t *textWriter) rootCause(d types.DiagnosisResult) {
	t.printf("Root cause: %s\n", d.Title)
	if d.Explanation != "" {
		t.printf("  %s\n", d.Explanation)
	}
	if len(d.Guidance) == 0 {
		return
	}
	t.printf("\nRecommended actions:\n")
	for i, g := range d.Guidance {
		t.printf("  %d. %s\n", i+1, g)
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

package render

import (
	"html/template"
	"io"
	"strings"
	"time"

	"eightd/internal/actionstatus"
	"eightd/internal/report"
)

// Conclusion is the D8 text of a closed authored report.
const Conclusion = "The 8D report is complete and closed. Thanks to the team for their effort!"

// ReportView is everything the HTML page needs. Actions are annotated by the
// caller so the page reflects the day it was rendered.
type ReportView struct {
	Report  *report.Model
	Actions []report.AnnotatedAction
	Today   string
}

// NewReportView annotates the permanent actions of m against today.
func NewReportView(m *report.Model, today time.Time) ReportView {
	return ReportView{
		Report:  m,
		Actions: m.Annotate(today),
		Today:   today.Format(actionstatus.DateLayout),
	}
}

// WhyRow is one labelled 5-Whys line.
type WhyRow struct {
	N    int
	Text string
}

// Whys returns the five rows, with N/A for empty slots.
func (v ReportView) Whys() []WhyRow {
	out := make([]WhyRow, 0, report.WhyCount)
	for i, w := range v.Report.D4.Whys {
		if strings.TrimSpace(w) == "" {
			w = "N/A"
		}
		out = append(out, WhyRow{N: i + 1, Text: w})
	}
	return out
}

func (v ReportView) Conclusion() string { return Conclusion }

var funcs = template.FuncMap{
	"check": report.Check,
	"inc":   func(i int) int { return i + 1 },
}

var reportTmpl = template.Must(template.New("report").Funcs(funcs).Parse(pageHead + `
<h1 class="center">8D Problem Solving Report</h1>
<p class="center meta"><strong>Project</strong>: {{.Report.D0.Title}} | <strong>Customer</strong>: {{.Report.D0.Customer}} | <strong>Date</strong>: {{.Today}}</p>

<h2>D1 &amp; D2: Team and Problem Description</h2>
<table class="section-table">
<tr><td>Project title</td><td>{{.Report.D0.Title}}</td></tr>
<tr><td>Team leader (D1)</td><td>{{.Report.D1.Leader}}</td></tr>
<tr><td>Team members</td><td>{{.Report.D1.Members}}</td></tr>
<tr><td>Problem (What)</td><td>{{.Report.D2.What}}</td></tr>
<tr><td>Location (Where)</td><td>{{.Report.D2.Where}}</td></tr>
<tr><td>Detailed description</td><td>{{.Report.D2.Desc}}</td></tr>
</table>

<h2>D3: Interim Containment Actions (ICA)</h2>
{{if .Report.D3}}<table>
<tr><th>#</th><th>Action</th></tr>
{{range $i, $c := .Report.D3}}<tr><td>{{inc $i}}</td><td>{{$c}}</td></tr>
{{end}}</table>
{{else}}<p>No containment actions recorded.</p>
{{end}}
<h2>D4: Root Cause Analysis (RCA)</h2>
<table class="section-table">
{{range .Whys}}<tr><td>Why {{.N}}</td><td>{{.Text}}</td></tr>
{{end}}<tr><td>Root cause summary</td><td>{{.Report.D4.RootCause}}</td></tr>
</table>

<h2>D5/D6: Permanent Corrective Actions</h2>
{{if .Actions}}<table>
<tr><th>Action</th><th>Planned date</th><th>Status</th></tr>
{{range .Actions}}<tr class="status-{{.Class}}"><td>{{.Action}}</td><td>{{.Date}}</td><td>{{.Label}}</td></tr>
{{end}}</table>
{{else}}<p>No permanent actions recorded.</p>
{{end}}
<h2>D7 &amp; D8: Prevention and Closure</h2>
<table class="section-table">
<tr><td>FMEA/SOP update (D7)</td><td>FMEA: {{check .Report.D7.FMEA}} | CP: {{check .Report.D7.CP}} | SOP: {{check .Report.D7.SOP}}</td></tr>
<tr><td>Team recognition (D8)</td><td>{{.Conclusion}}</td></tr>
</table>
` + pageFoot))

var blocksTmpl = template.Must(template.New("blocks").Parse(pageHead + `
{{range .Blocks}}{{if eq .Kind 1}}{{if eq .Level 1}}<h1>{{.Text}}</h1>{{else if eq .Level 2}}<h2>{{.Text}}</h2>{{else}}<h3>{{.Text}}</h3>{{end}}
{{else if eq .Kind 2}}<ul><li>{{.Text}}</li></ul>
{{else}}<p>{{.Text}}</p>
{{end}}{{end}}` + pageFoot))

// HTML writes the print-ready page of an authored report.
func HTML(w io.Writer, v ReportView) error {
	if v.Report == nil {
		v.Report = report.New()
	}
	return reportTmpl.Execute(w, v)
}

// TranslatedHTML writes translated Markdown with the same stylesheet.
func TranslatedHTML(w io.Writer, title, markdown string) error {
	return blocksTmpl.Execute(w, struct {
		Title  string
		Blocks []Block
	}{title, ParseMarkdownLines(markdown)})
}

const pageHead = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>8D Report - {{.Title}}</title>
<style>
body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 20px; font-size: 11pt; }
.container { max-width: 900px; margin: auto; border: 1px solid #ccc; padding: 15px; box-shadow: 2px 2px 8px #eee; }
.center { text-align: center; }
.meta { border-bottom: 1px dashed #ccc; padding-bottom: 10px; }
h1 { color: #0056b3; }
h2 { border-bottom: 2px solid #0056b3; padding-bottom: 5px; color: #0056b3; margin-top: 20px; }
table { width: 100%; border-collapse: collapse; margin-bottom: 15px; }
th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
th { background-color: #f2f2f2; font-weight: bold; }
.section-table td:nth-child(1) { width: 30%; background-color: #f9f9f9; font-weight: bold; }
.status-Completed { background-color: #d4edda; color: #155724; }
.status-Overdue { background-color: #f8d7da; color: #721c24; font-weight: bold; }
.status-DueSoon { background-color: #fff3cd; color: #856404; }
.status-Open { background-color: #f0f0f0; }
@media print {
  .container { max-width: 100%; border: none; padding: 0; box-shadow: none; margin: 0; }
  @page { size: A4; margin: 20mm; }
  h2 { page-break-before: auto; page-break-after: avoid; }
  table { page-break-inside: avoid; }
}
</style>
</head>
<body>
<div class="container">`

const pageFoot = `
</div>
</body>
</html>
`

// Title exposes the page title to the shared head.
func (v ReportView) Title() string {
	if v.Report == nil {
		return ""
	}
	return v.Report.D0.Title
}

package export

import (
	"bytes"
	"html/template"
)

var htmlReport = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>{{.Title}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        .header { text-align: center; border-bottom: 2px solid #333; padding-bottom: 20px; margin-bottom: 30px; }
        .section { margin-bottom: 30px; }
        .section h2 { color: #333; border-bottom: 1px solid #ccc; padding-bottom: 10px; }
        table { width: 100%; border-collapse: collapse; margin-top: 15px; }
        th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
        th { background-color: #f2f2f2; }
        .form-grid { display: grid; grid-template-columns: 1fr 1fr; gap: 15px; }
        .form-item label { font-weight: bold; display: block; margin-bottom: 5px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>{{.Title}}</h1>
        <p>Generated on {{.Generated}}</p>
    </div>
    <div class="section">
        <h2>Vessel and Cargo Details</h2>
        <div class="form-grid">{{range .Details}}
            <div class="form-item"><label>{{.Label}}:</label><span>{{.Value}}</span></div>{{end}}
        </div>
    </div>
    <div class="section">
        <h2>Laytime Parameters</h2>
        <div class="form-grid">{{range .Parameters}}
            <div class="form-item"><label>{{.Label}}:</label><span>{{.Value}}</span></div>{{end}}
        </div>
    </div>
    <div class="section">
        <h2>Laytime Summary</h2>{{range .Summary}}
        <p><strong>{{.Label}}:</strong> {{.Value}}</p>{{end}}
    </div>
    <div class="section">
        <h2>Events Timeline</h2>
        <table>
            <thead>
                <tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr>
            </thead>
            <tbody>{{range .Events}}
                <tr><td>{{.Event}}</td><td>{{.Day}}</td><td>{{.StartDateTime}}</td><td>{{.EndDateTime}}</td><td>{{.TimeUtilization}}</td><td>{{.PercentUtilization}}%</td><td>{{.LaytimeConsumed}}</td><td>{{.LaytimeRemaining}}</td></tr>{{end}}
            </tbody>
        </table>
    </div>
</body>
</html>
`))

type htmlField struct {
	Label, Value string
}

func htmlFields(fields []field) []htmlField {
	out := make([]htmlField, len(fields))
	for i, f := range fields {
		out[i] = htmlField{Label: f.label, Value: f.value}
	}
	return out
}

// HTML renders r as a standalone HTML page.
func HTML(r Report) ([]byte, error) {
	data := struct {
		Title      string
		Generated  string
		Details    []htmlField
		Parameters []htmlField
		Summary    []htmlField
		Headers    []string
		Events     any
	}{
		Title:      reportTitle,
		Generated:  r.GeneratedAt.Format("2006-01-02"),
		Details:    htmlFields(formFields(r.Form)[:6]),
		Parameters: htmlFields(parameterFields(r.Form)),
		Summary:    htmlFields(laytimeFields(r.Laytime)),
		Headers:    eventHeaders,
		Events:     r.Events,
	}

	var buf bytes.Buffer
	if err := htmlReport.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

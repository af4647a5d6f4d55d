// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import (
	"bytes"
	"text/template"
)

// outreachPromptTmpl is the prompt sent to the generative model for each
// outreach draft. It embeds the paper, any lab context, and the requester
// profile, and instructs the model to respond with a fixed JSON shape so
// the response parser has a stable contract to validate against.
var outreachPromptTmpl = template.Must(template.New("outreach").Parse(`You are an assistant helping a researcher write an outreach message about a published paper.

Paper title: {{.Title}}
{{- if .Abstract}}
Abstract: {{.Abstract}}
{{- end}}
{{- if .Investigator}}
Principal investigator: {{.Investigator}}
{{- end}}
{{- if .LabText}}

Current work of the investigator's lab{{if .LabURL}} (from {{.LabURL}}){{end}}:
{{.LabText}}
{{- end}}

The person reaching out:
- Name: {{.RequesterName}}
- Qualification: {{.Qualification}}
- Institution: {{.Institution}}
{{- if .Skills}}
- Skills: {{.Skills}}
{{- end}}

Produce:
- summary: a 2-3 sentence summary of the paper
- skills: the skills a collaborator on this work would need, drawn from the paper and lab context
- analysis: an object with "citation_score" (estimated citation impact, a number) and "vacancy_estimate" (estimated open positions in this lab or area, a number); use null for either when you cannot estimate
- draft_message: a short, specific outreach email from the requester to the investigator about this paper

Respond with a single JSON object containing exactly the fields "summary", "skills", "analysis", and "draft_message". Do not include any text outside the JSON object.

Example response:
{"summary": "The paper introduces a sparse attention variant that cuts memory use in half.", "skills": ["PyTorch", "transformer architectures", "CUDA"], "analysis": {"citation_score": 450, "vacancy_estimate": 2}, "draft_message": "Dear Professor Smith, I read your recent paper on sparse attention..."}
`))

// promptData carries the already length-bounded fields into the template.
type promptData struct {
	Title         string
	Abstract      string
	Investigator  string
	LabText       string
	LabURL        string
	RequesterName string
	Qualification string
	Institution   string
	Skills        string
}

func renderPrompt(data promptData) (string, error) {
	var buf bytes.Buffer
	if err := outreachPromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

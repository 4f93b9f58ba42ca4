package notify

import (
	"bytes"
	"fmt"
	"html/template"
)

// The original system built these bodies as inline HTML strings inside the
// workflow handlers; they live here so the handlers stay free of
// presentation concerns.

var stageDecisionTmpl = template.Must(template.New("stageDecision").Parse(`<html><body>
<p>Dear {{.RecipientName}},</p>
<p>Gate pass <strong>{{.RefNo}}</strong> was <strong>{{.Decision}}</strong> at the {{.Stage}} stage{{if .ActorName}} by {{.ActorName}}{{end}}.</p>
{{if .Comment}}<p>Comment: {{.Comment}}</p>{{end}}
<p>This is an automated message from the Gate Pass System.</p>
</body></html>`))

var newRequestTmpl = template.Must(template.New("newRequest").Parse(`<html><body>
<p>Dear {{.RecipientName}},</p>
<p>Gate pass <strong>{{.RefNo}}</strong> has been submitted and is awaiting your approval at the {{.Stage}} stage.</p>
<p>This is an automated message from the Gate Pass System.</p>
</body></html>`))

var itemsReturnedTmpl = template.Must(template.New("itemsReturned").Parse(`<html><body>
<p>Dear {{.RecipientName}},</p>
<p>The following items of gate pass <strong>{{.RefNo}}</strong> have been marked as returned:</p>
<ul>
{{range .Items}}<li>{{.Name}} (serial {{.SerialNo}})</li>
{{end}}</ul>
<p>This is an automated message from the Gate Pass System.</p>
</body></html>`))

// ComposeMailBody renders the HTML body for the event.
func (e Event) ComposeMailBody() (string, error) {
	var buf bytes.Buffer
	switch e.Type {
	case TypeNewRequest:
		if err := newRequestTmpl.Execute(&buf, e); err != nil {
			return "", err
		}
	case TypeRequestApproved:
		err := stageDecisionTmpl.Execute(&buf, struct {
			Event
			Decision string
		}{e, "approved"})
		if err != nil {
			return "", err
		}
	case TypeRequestRejected:
		err := stageDecisionTmpl.Execute(&buf, struct {
			Event
			Decision string
		}{e, "rejected"})
		if err != nil {
			return "", err
		}
	case TypeItemsReturned:
		if err := itemsReturnedTmpl.Execute(&buf, e); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("no mail template for event type %q", e.Type)
	}
	return buf.String(), nil
}

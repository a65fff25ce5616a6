package services

import (
	htmltemplate "html/template"
	texttemplate "text/template"
)

// Template names stored on outbox rows
const (
	TplVerifyEmail     = "verify_email"
	TplSubmitted       = "submission_received"
	TplStageMoved      = "stage_moved"
	TplReturned        = "returned_to_applicant"
	TplApproved        = "approved"
	TplRejected        = "rejected"
	TplWithdrawn       = "withdrawn"
	TplExpired         = "draft_expired"
	TplPaymentReceived = "payment_received"
	TplStaffAlert      = "staff_alert"
)

const layoutHTML = `{{define "layout"}}<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif;color:#222;max-width:600px;margin:auto">
<h2 style="color:#1a4d8f">Estate Agents Council</h2>
{{template "body" .}}
<p style="color:#888;font-size:12px">This is an automated message from the EAC registry. Please do not reply.</p>
</body></html>{{end}}`

var htmlBodies = map[string]string{
	TplVerifyEmail: `{{define "body"}}<p>Dear {{.Name}},</p>
<p>Your applicant account <strong>{{.ApplicantID}}</strong> has been created. Please confirm your email address:</p>
<p><a href="{{.Link}}">Verify my email</a></p>
<p>The link expires in 48 hours.</p>{{end}}`,
	TplSubmitted: `{{define "body"}}<p>Dear {{.Name}},</p>
<p>We have received application <strong>{{.ApplicationID}}</strong>. It is now in <em>{{.Stage}}</em>.</p>{{end}}`,
	TplStageMoved: `{{define "body"}}<p>Dear {{.Name}},</p>
<p>Application <strong>{{.ApplicationID}}</strong> has moved to <em>{{.Stage}}</em>.</p>{{end}}`,
	TplReturned: `{{define "body"}}<p>Dear {{.Name}},</p>
<p>Application <strong>{{.ApplicationID}}</strong> needs your attention before review can continue.</p>
{{if .Comment}}<p>Registrar comment: {{.Comment}}</p>{{end}}{{end}}`,
	TplApproved: `{{define "body"}}<p>Dear {{.Name}},</p>
<p>Congratulations. Application <strong>{{.ApplicationID}}</strong> has been approved.</p>
<p>Your registration number is <strong>{{.Number}}</strong>, valid until {{.ExpiresAt}}. Your certificate is attached.</p>{{end}}`,
	TplRejected: `{{define "body"}}<p>Dear {{.Name}},</p>
<p>We regret that application <strong>{{.ApplicationID}}</strong> was not approved.</p>
{{if .Reasons}}<ul>{{range .Reasons}}<li>{{.}}</li>{{end}}</ul>{{end}}
<p>You may submit a new application.</p>{{end}}`,
	TplWithdrawn: `{{define "body"}}<p>Dear {{.Name}},</p>
<p>Application <strong>{{.ApplicationID}}</strong> has been withdrawn.</p>{{end}}`,
	TplExpired: `{{define "body"}}<p>Dear {{.Name}},</p>
<p>Draft application <strong>{{.ApplicationID}}</strong> expired after a period of inactivity. You may start a new application.</p>{{end}}`,
	TplPaymentReceived: `{{define "body"}}<p>Dear {{.Name}},</p>
<p>We have received payment of <strong>{{.Amount}}</strong> for application <strong>{{.ApplicationID}}</strong>.</p>{{end}}`,
	TplStaffAlert: `{{define "body"}}<p>Application <strong>{{.ApplicationID}}</strong> ({{.Name}}) entered <em>{{.Stage}}</em> and is waiting for review.</p>
<p><a href="{{.Link}}">Open in registry</a></p>{{end}}`,
}

var textBodies = map[string]string{
	TplVerifyEmail:     "Dear {{.Name}},\n\nYour applicant account {{.ApplicantID}} has been created. Verify your email: {{.Link}}\n",
	TplSubmitted:       "Dear {{.Name}},\n\nWe have received application {{.ApplicationID}}. It is now in {{.Stage}}.\n",
	TplStageMoved:      "Dear {{.Name}},\n\nApplication {{.ApplicationID}} has moved to {{.Stage}}.\n",
	TplReturned:        "Dear {{.Name}},\n\nApplication {{.ApplicationID}} needs your attention.{{if .Comment}}\nRegistrar comment: {{.Comment}}{{end}}\n",
	TplApproved:        "Dear {{.Name}},\n\nApplication {{.ApplicationID}} has been approved. Registration number: {{.Number}}, valid until {{.ExpiresAt}}.\n",
	TplRejected:        "Dear {{.Name}},\n\nApplication {{.ApplicationID}} was not approved.{{range .Reasons}}\n- {{.}}{{end}}\n",
	TplWithdrawn:       "Dear {{.Name}},\n\nApplication {{.ApplicationID}} has been withdrawn.\n",
	TplExpired:         "Dear {{.Name}},\n\nDraft application {{.ApplicationID}} expired after a period of inactivity.\n",
	TplPaymentReceived: "Dear {{.Name}},\n\nWe have received payment of {{.Amount}} for application {{.ApplicationID}}.\n",
	TplStaffAlert:      "Application {{.ApplicationID}} ({{.Name}}) entered {{.Stage}}.\n{{.Link}}\n",
}

var subjects = map[string]string{
	TplVerifyEmail:     "Verify your email address",
	TplSubmitted:       "Application %s received",
	TplStageMoved:      "Application %s update",
	TplReturned:        "Action required on application %s",
	TplApproved:        "Application %s approved",
	TplRejected:        "Application %s decision",
	TplWithdrawn:       "Application %s withdrawn",
	TplExpired:         "Application %s expired",
	TplPaymentReceived: "Payment received for %s",
	TplStaffAlert:      "[Registry] %s awaiting review",
}

const certificateHTML = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Certificate {{.Number}}</title></head>
<body style="font-family:Georgia,serif;text-align:center;border:8px double #1a4d8f;padding:48px">
<h1>Estate Agents Council</h1>
<h2>Certificate of Registration</h2>
<p>This certifies that</p>
<h2>{{.Name}}</h2>
<p>is registered as {{.Category}}</p>
<p>Registration number <strong>{{.Number}}</strong></p>
<p>Issued {{.IssuedAt}} &middot; Valid until {{.ExpiresAt}}</p>
<p style="font-size:12px;color:#666">Verify at {{.VerifyURL}}</p>
</body></html>`

var (
	htmlTemplates = map[string]*htmltemplate.Template{}
	textTemplates = map[string]*texttemplate.Template{}
	certificate   = htmltemplate.Must(htmltemplate.New("certificate").Parse(certificateHTML))
)

func init() {
	for name, body := range htmlBodies {
		t := htmltemplate.Must(htmltemplate.New(name).Parse(layoutHTML))
		htmlTemplates[name] = htmltemplate.Must(t.Parse(body))
	}
	for name, body := range textBodies {
		textTemplates[name] = texttemplate.Must(texttemplate.New(name).Parse(body))
	}
}

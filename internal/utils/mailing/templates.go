package mailing

import (
	"bytes"
	"html/template"
	"strings"
)

var (
	welcomeTemplate = template.Must(template.New("welcome").Parse(`
<h2>Welcome to Foodies</h2>
<p>Hello {{.Name}},</p>
<p>Your account is ready. Start sharing your recipes at <a href="{{.AppURL}}">{{.AppURL}}</a>.</p>
`))

	resetTemplate = template.Must(template.New("reset").Parse(`
<h2>Password Reset Request</h2>
<p>Hello {{.Name}},</p>
<p>You have requested to reset your password. Click the link below to reset it:</p>
<a href="{{.Link}}">Reset Password</a>
<p>This link will expire in 1 hour.</p>
<p>If you didn't request this, please ignore this email.</p>
`))
)

type mailData struct {
	Name   string
	AppURL string
	Link   string
}

func render(t *template.Template, data mailData) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return ""
	}
	return buf.String()
}

func WelcomeMail(appURL, name string) (string, string) {
	return "Welcome to Foodies", render(welcomeTemplate, mailData{Name: displayName(name), AppURL: appURL})
}

func PasswordResetMail(appURL, name, resetToken string) (string, string) {
	link := strings.TrimRight(appURL, "/") + "/reset-password/" + resetToken
	return "Password Reset Request", render(resetTemplate, mailData{Name: displayName(name), Link: link})
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "there"
	}
	return name
}

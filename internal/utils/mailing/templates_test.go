package mailing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordResetMail(t *testing.T) {
	subject, body := PasswordResetMail("https://foodies.app/", "Ann", "tok123")

	assert.Equal(t, "Password Reset Request", subject)
	assert.Contains(t, body, `href="https://foodies.app/reset-password/tok123"`)
	assert.Contains(t, body, "Hello Ann")
}

func TestWelcomeMail_EscapesName(t *testing.T) {
	_, body := WelcomeMail("https://foodies.app", "<b>Eve</b>")

	assert.NotContains(t, body, "<b>Eve</b>")
	assert.Contains(t, body, "&lt;b&gt;Eve&lt;/b&gt;")

	_, body = WelcomeMail("https://foodies.app", " ")
	assert.Contains(t, body, "Hello there")
}

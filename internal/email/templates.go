package email

import "html/template"

type templateData struct {
	Name string
	Link string
}

type templateRef = *template.Template

var verificationTemplate = template.Must(template.New("verification").Parse(`
<html>
<body style="font-family: Arial, sans-serif;">
  <h2>Welcome to LanceHub, {{.Name}}!</h2>
  <p>Please confirm your email address by clicking the link below:</p>
  <p><a href="{{.Link}}">Confirm email</a></p>
  <p>If you did not sign up, just ignore this email.</p>
</body>
</html>`))

var passwordResetTemplate = template.Must(template.New("password_reset").Parse(`
<html>
<body style="font-family: Arial, sans-serif;">
  <h2>Hi {{.Name}},</h2>
  <p>We received a request to reset your password. The link is valid for one hour:</p>
  <p><a href="{{.Link}}">Reset password</a></p>
  <p>If you did not request a reset, ignore this email.</p>
</body>
</html>`))

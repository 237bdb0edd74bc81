package templates

import (
	"bytes"
	"fmt"
	html "html/template"
	text "text/template"
)

// Per-kind email templates. Data keys are documented on each template; the
// worker passes the EmailJob.Data map through unchanged.

type tpl struct {
	subject string
	text    string
	html    string
}

var registry = map[string]tpl{
	// Data: Login, Code, ExpiresMinutes
	"verify_email": {
		subject: "Verify your library account",
		text: `Dear {{.Login}},

Thank you for registering with our library service.
Your verification code is: {{.Code}}

The code remains valid for {{.ExpiresMinutes}} minutes.
If you did not request this action, you may safely ignore this message.

The Library Team`,
		html: `<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;padding:32px;background:#ffffff;border-radius:12px;">
<h2 style="color:#2a2a2a;">Email Verification</h2>
<p>Dear {{.Login}},</p>
<p>Thank you for registering with our library service.<br>
Please use the verification code below to complete your account setup:</p>
<p style="text-align:center;"><span style="font-size:32px;font-weight:bold;background:#2a7ae2;color:#ffffff;padding:15px 30px;border-radius:8px;display:inline-block;">{{.Code}}</span></p>
<p>This code will remain valid for <strong>{{.ExpiresMinutes}} minutes</strong>.</p>
<p style="color:#777;">If you did not request this action, you may safely ignore this message.</p>
<p>Sincerely,<br><strong>The Library Team</strong></p>
</div>`,
	},
	// Data: Login, ResetLink, ExpiresMinutes
	"reset_password": {
		subject: "Reset your library account password",
		text: `Dear {{.Login}},

We received a request to reset your password. Use the link below:
{{.ResetLink}}

The link remains valid for {{.ExpiresMinutes}} minutes.
If you did not request this action, you may safely ignore this message.

The Library Team`,
		html: `<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;padding:32px;background:#ffffff;border-radius:12px;">
<h2 style="color:#2a2a2a;">Password Reset</h2>
<p>Dear {{.Login}},</p>
<p>We received a request to reset the password for your library account.</p>
<p style="text-align:center;"><a href="{{.ResetLink}}" style="background:#2a7ae2;color:#ffffff;padding:12px 28px;border-radius:8px;text-decoration:none;font-weight:bold;">Reset password</a></p>
<p>The link remains valid for <strong>{{.ExpiresMinutes}} minutes</strong>.</p>
<p style="color:#777;">If you did not request this action, you may safely ignore this message.</p>
<p>Sincerely,<br><strong>The Library Team</strong></p>
</div>`,
	},
	// Data: Name, Title, Author, Edition, ISBN, ImageURL, ReservedUntil
	"reservation_created": {
		subject: "Reservation confirmed",
		text: `Hello {{.Name}},

You have successfully reserved "{{.Title}}" by {{.Author}} (ISBN {{.ISBN}}).
Your reservation is valid until {{.ReservedUntil}}.

The Library Team`,
		html: `<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;background:#ffffff;border-radius:8px;overflow:hidden;">
<div style="background:#4a90e2;color:#ffffff;padding:20px;text-align:center;font-size:24px;font-weight:bold;">Reservation Confirmed</div>
<div style="padding:25px;color:#333;font-size:16px;">
<p>Hello <strong>{{.Name}}</strong>,</p>
<p>You have successfully reserved the book:</p>
{{if .ImageURL}}<img src="{{.ImageURL}}" alt="Book cover" style="width:120px;border-radius:6px;float:left;margin-right:15px;">{{end}}
<p><strong>{{.Title}}</strong><br>Author: {{.Author}}<br>Edition: {{.Edition}}<br>ISBN: {{.ISBN}}</p>
<p style="clear:both;">Your reservation is valid until:</p>
<h2 style="color:#4a90e2;">{{.ReservedUntil}}</h2>
</div></div>`,
	},
	// Data: Name, ReservationID, ISBN, ReservedUntil
	"reservation_extended": {
		subject: "Reservation extended",
		text: `Hello {{.Name}},

Your reservation #{{.ReservationID}} for ISBN {{.ISBN}} has been extended.
The new expiry date is {{.ReservedUntil}}.
A reservation can be extended only once.

The Library Team`,
		html: `<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;background:#ffffff;border-radius:8px;overflow:hidden;">
<div style="background:#4a90e2;color:#ffffff;padding:20px;text-align:center;font-size:24px;font-weight:bold;">Reservation Extended</div>
<div style="padding:25px;color:#333;font-size:16px;">
<p>Hello <strong>{{.Name}}</strong>,</p>
<p>Your reservation <strong>#{{.ReservationID}}</strong> for ISBN {{.ISBN}} has been extended.</p>
<p>The new expiry date is:</p>
<h2 style="color:#4a90e2;">{{.ReservedUntil}}</h2>
<p style="color:#777;">A reservation can be extended only once.</p>
</div></div>`,
	},
	// Data: Name, ReservationID
	"reservation_cancelled": {
		subject: "Reservation cancelled",
		text: `Hello {{.Name}},

Your reservation #{{.ReservationID}} has been cancelled and the book is
available again.

The Library Team`,
		html: `<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;background:#ffffff;border-radius:8px;overflow:hidden;">
<div style="background:#888888;color:#ffffff;padding:20px;text-align:center;font-size:24px;font-weight:bold;">Reservation Cancelled</div>
<div style="padding:25px;color:#333;font-size:16px;">
<p>Hello <strong>{{.Name}}</strong>,</p>
<p>Your reservation <strong>#{{.ReservationID}}</strong> has been cancelled and the book is available again.</p>
</div></div>`,
	},
}

// Render renders the template for the given kind and returns subject, text
// and html bodies.
func Render(kind string, data map[string]any) (string, string, string, error) {
	t, ok := registry[kind]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email kind %q", kind)
	}

	tt, err := text.New(kind).Parse(t.text)
	if err != nil {
		return "", "", "", err
	}
	var tb bytes.Buffer
	if err := tt.Execute(&tb, data); err != nil {
		return "", "", "", err
	}

	ht, err := html.New(kind).Parse(t.html)
	if err != nil {
		return "", "", "", err
	}
	var hb bytes.Buffer
	if err := ht.Execute(&hb, data); err != nil {
		return "", "", "", err
	}

	return t.subject, tb.String(), hb.String(), nil
}

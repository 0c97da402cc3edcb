package email

// contactHTMLTemplate is the HTML body. Phone and company blocks are left out when empty.
const contactHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>New Contact Form Submission</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: linear-gradient(135deg, #0a1628 0%, #00d4aa 100%); color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
        .content { background: #f8f9fa; padding: 30px; border-radius: 0 0 8px 8px; }
        .field { margin-bottom: 20px; }
        .label { font-weight: bold; color: #0a1628; margin-bottom: 5px; display: block; }
        .value { background: white; padding: 10px; border-radius: 4px; border-left: 4px solid #00d4aa; }
        .message-box { background: white; padding: 15px; border-radius: 4px; border-left: 4px solid #00d4aa; white-space: pre-wrap; }
        .footer { text-align: center; margin-top: 20px; color: #666; font-size: 14px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>🔔 New Contact Form Submission</h1>
            <p>GX Integrated Services</p>
        </div>
        <div class="content">
            <div class="field">
                <span class="label">👤 Full Name:</span>
                <div class="value">{{.Name}}</div>
            </div>
            <div class="field">
                <span class="label">📧 Email Address:</span>
                <div class="value"><a href="mailto:{{.Email}}">{{.Email}}</a></div>
            </div>
{{- if .Phone}}
            <div class="field">
                <span class="label">📱 Phone Number:</span>
                <div class="value"><a href="tel:{{.Phone}}">{{.Phone}}</a></div>
            </div>
{{- end}}
{{- if .Company}}
            <div class="field">
                <span class="label">🏢 Company:</span>
                <div class="value">{{.Company}}</div>
            </div>
{{- end}}
            <div class="field">
                <span class="label">🎯 Service Interest:</span>
                <div class="value">{{.ServiceLabel}}</div>
            </div>
            <div class="field">
                <span class="label">💬 Message:</span>
                <div class="message-box">{{.Message}}</div>
            </div>
            <div class="footer">
                <p><strong>Submitted:</strong> {{.Submitted}}</p>
                <p>This email was sent from the GX Integrated Services contact form.</p>
            </div>
        </div>
    </div>
</body>
</html>
`

// contactTextTemplate is the plain-text alternative. Missing optional fields read "Not provided".
const contactTextTemplate = `New Contact Form Submission - GX Integrated Services

Name: {{.Name}}
Email: {{.Email}}
Phone: {{or .Phone "Not provided"}}
Company: {{or .Company "Not provided"}}
Service Interest: {{.ServiceLabel}}

Message:
{{.Message}}

Submitted: {{.Submitted}}
`

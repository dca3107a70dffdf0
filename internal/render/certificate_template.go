package render

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// CertificateData feeds the fixed certificate layout.
type CertificateData struct {
	RecipientName     string
	CourseTitle       string
	AverageScore      int
	CertificateNumber string
	CompletionDate    time.Time
}

var certificateTmpl = template.Must(template.New("certificate").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Certificate</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            width: 1056px; height: 816px;
            font-family: 'Georgia', 'Times New Roman', serif;
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            display: flex; justify-content: center; align-items: center;
            padding: 20px;
        }
        .certificate-container {
            width: 1000px; height: 750px; background: white;
            border: 20px solid #f0e68c;
            box-shadow: 0 0 0 5px #d4af37, 0 20px 60px rgba(0, 0, 0, 0.3),
                inset 0 0 40px rgba(212, 175, 55, 0.1);
            position: relative; padding: 60px 80px;
        }
        .certificate-header { text-align: center; margin-bottom: 40px; }
        .certificate-title {
            font-size: 48px; color: #2c3e50; font-weight: bold;
            letter-spacing: 3px; text-transform: uppercase; margin-bottom: 10px;
        }
        .certificate-subtitle {
            font-size: 20px; color: #7f8c8d; letter-spacing: 2px;
            text-transform: uppercase;
        }
        .certificate-body { text-align: center; margin: 50px 0; }
        .awarded-to { font-size: 18px; color: #7f8c8d; margin-bottom: 20px; }
        .recipient-name {
            font-size: 56px; color: #2c3e50; font-weight: bold;
            margin: 20px 0; padding: 20px;
            border-bottom: 3px solid #d4af37; display: inline-block;
        }
        .achievement-text {
            font-size: 20px; color: #34495e; line-height: 1.8;
            margin: 30px auto; max-width: 700px;
        }
        .course-name { font-weight: bold; color: #667eea; font-size: 24px; }
        .score-section { margin: 30px 0; font-size: 18px; color: #27ae60; font-weight: bold; }
        .certificate-footer {
            display: flex; justify-content: space-between;
            margin-top: 60px; padding-top: 30px; border-top: 2px solid #ecf0f1;
        }
        .footer-item { text-align: center; flex: 1; }
        .footer-label {
            font-size: 14px; color: #7f8c8d; text-transform: uppercase;
            letter-spacing: 1px; margin-bottom: 10px;
        }
        .footer-value { font-size: 18px; color: #2c3e50; font-weight: bold; }
        .signature-line { border-top: 2px solid #2c3e50; width: 200px; margin: 0 auto 10px; }
        .decorative-corner { position: absolute; width: 100px; height: 100px; }
        .top-left { top: 40px; left: 40px; border-top: 5px solid #d4af37; border-left: 5px solid #d4af37; }
        .top-right { top: 40px; right: 40px; border-top: 5px solid #d4af37; border-right: 5px solid #d4af37; }
        .bottom-left { bottom: 40px; left: 40px; border-bottom: 5px solid #d4af37; border-left: 5px solid #d4af37; }
        .bottom-right { bottom: 40px; right: 40px; border-bottom: 5px solid #d4af37; border-right: 5px solid #d4af37; }
        .seal {
            position: absolute; bottom: 60px; right: 100px;
            width: 100px; height: 100px; border: 5px solid #d4af37;
            border-radius: 50%; display: flex; align-items: center; justify-content: center;
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            color: white; font-size: 12px; font-weight: bold; text-align: center;
        }
    </style>
</head>
<body>
    <div class="certificate-container">
        <div class="decorative-corner top-left"></div>
        <div class="decorative-corner top-right"></div>
        <div class="decorative-corner bottom-left"></div>
        <div class="decorative-corner bottom-right"></div>

        <div class="certificate-header">
            <div class="certificate-title">Certificate</div>
            <div class="certificate-subtitle">Of Achievement</div>
        </div>

        <div class="certificate-body">
            <div class="awarded-to">This certificate is proudly presented to</div>

            <div class="recipient-name">{{.RecipientName}}</div>

            <div class="achievement-text">
                For successfully completing the course
                <br>
                <span class="course-name">{{.CourseTitle}}</span>
                <br>
                with dedication and excellence
            </div>

            <div class="score-section">
                Average Score: {{.AverageScore}}%
            </div>
        </div>

        <div class="certificate-footer">
            <div class="footer-item">
                <div class="footer-label">Certificate Number</div>
                <div class="footer-value">{{.CertificateNumber}}</div>
            </div>

            <div class="footer-item">
                <div class="footer-label">Completion Date</div>
                <div class="footer-value">{{.FormattedDate}}</div>
            </div>

            <div class="footer-item">
                <div class="signature-line"></div>
                <div class="footer-label">Authorized Signature</div>
            </div>
        </div>

        <div class="seal">
            VERIFIED<br>CERTIFICATE
        </div>
    </div>
</body>
</html>`))

// FormattedDate renders the completion date the way the certificate shows it.
func (d CertificateData) FormattedDate() string {
	return d.CompletionDate.Format("January 2, 2006")
}

func CertificateHTML(data CertificateData) (string, error) {
	var buf bytes.Buffer
	if err := certificateTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute certificate template: %w", err)
	}
	return buf.String(), nil
}

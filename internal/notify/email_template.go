package notify

const emailHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>{{.Title}}</title>
  <style>
    body {
      margin: 0;
      padding: 24px;
      background-color: #f3f4f6;
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
      color: #111827;
      line-height: 1.5;
    }

    .container {
      max-width: 640px;
      margin: 0 auto;
      background: #ffffff;
      border-radius: 8px;
      border: 1px solid #e5e7eb;
      overflow: hidden;
    }

    .header {
      padding: 20px 24px;
      background: linear-gradient(135deg, #0b3d91 0%, #1f2937 100%);
      color: #ffffff;
    }

    .header.error {
      background: linear-gradient(135deg, #7f1d1d 0%, #37393b 100%);
    }

    .title {
      font-size: 20px;
      font-weight: 700;
    }

    .badge {
      display: inline-block;
      margin-top: 8px;
      padding: 4px 10px;
      font-size: 11px;
      font-weight: 600;
      border-radius: 4px;
      background: #f97316;
      color: #ffffff;
      letter-spacing: 0.05em;
    }

    .section {
      padding: 16px 24px;
      border-top: 1px solid #f3f4f6;
    }

    .section-title {
      font-size: 11px;
      font-weight: 700;
      color: #6b7280;
      text-transform: uppercase;
      letter-spacing: 0.1em;
      margin-bottom: 12px;
    }

    .summary-box {
      background: #f9fafb;
      border-left: 3px solid #0b3d91;
      padding: 12px 16px;
      font-size: 15px;
      color: #111827;
      border-radius: 0 4px 4px 0;
    }

    .cta-button {
      display: inline-block;
      margin-top: 12px;
      padding: 10px 20px;
      font-size: 14px;
      font-weight: 600;
      color: #ffffff !important;
      background: #0b3d91;
      border-radius: 6px;
      text-decoration: none;
    }

    .footer {
      padding: 16px 24px;
      font-size: 12px;
      color: #9ca3af;
      text-align: center;
      background: #f9fafb;
      border-top: 1px solid #f3f4f6;
    }
  </style>
</head>
<body>
  <div class="container">
    <div class="header{{if .IsError}} error{{end}}">
      <div class="title">{{.Title}}</div>
      {{if .Badge}}<span class="badge">{{.Badge}}</span>{{end}}
    </div>

    {{if .Summary}}
    <div class="section">
      <div class="section-title">最新資訊</div>
      <div class="summary-box">{{.Summary}}</div>
    </div>
    {{end}}

    <div class="section">
      <div class="section-title">檢查時間</div>
      <div>{{.CheckedAt}}</div>
      {{if .PageURL}}
      <a href="{{.PageURL}}" class="cta-button" target="_blank" rel="noopener">
        前往官方網站 →
      </a>
      {{end}}
    </div>

    <div class="footer">
      Generated by dvwatch
    </div>
  </div>
</body>
</html>`

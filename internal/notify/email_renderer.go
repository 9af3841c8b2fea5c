package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// Renderer produces the plain text body used by every sender plus an HTML
// alternative for email.
type Renderer struct {
	tmpl     *template.Template
	location *time.Location
}

// NewRenderer creates a renderer that prints check times in loc.
func NewRenderer(loc *time.Location) *Renderer {
	if loc == nil {
		loc = time.Local
	}
	t := template.Must(template.New("email").Parse(emailHTMLTemplate))
	return &Renderer{tmpl: t, location: loc}
}

type htmlView struct {
	Title     string
	Badge     string
	Summary   string
	PageURL   string
	CheckedAt string
	IsError   bool
}

func (r *Renderer) Render(data NotificationData) (*RenderedMessage, error) {
	checkedAt := data.CheckedAt.In(r.location).Format(TimestampLayout)

	var subject, text string
	view := htmlView{
		Summary:   data.Summary,
		PageURL:   data.PageURL,
		CheckedAt: checkedAt,
	}

	switch data.Kind {
	case KindChanged:
		subject = "DV Program 日期更新"
		text = fmt.Sprintf("🔔 美國綠卡抽籤 (DV Program) 日期更新！ (AI 驗證)\n\n"+
			"【最新資訊】\n%s\n\n"+
			"請立刻至官方網站確認：\n%s",
			data.Summary, data.PageURL)
		view.Title = "🔔 美國綠卡抽籤 (DV Program) 日期更新！"
		view.Badge = "AI 驗證"
	case KindRoutine:
		subject = "DV Program 例行回報"
		text = fmt.Sprintf("🤖 機器人例行回報 (DV Program - AI 版):\n\n"+
			"狀態無變化。\n"+
			"AI 監控資訊: %s\n"+
			"(檢查時間: %s)",
			data.Summary, checkedAt)
		view.Title = "🤖 機器人例行回報 (DV Program)"
		view.Badge = "狀態無變化"
	case KindError:
		subject = "DV Program 檢查失敗"
		text = fmt.Sprintf("❌ 機器人爬蟲錯誤 (DV Program - Gemini 版):\n\n"+
			"無法抓取 %s 或呼叫 Gemini API 失敗。\n"+
			"請檢查程式日誌。\n"+
			"(檢查時間: %s)",
			data.PageURL, checkedAt)
		view.Title = "❌ 機器人爬蟲錯誤 (DV Program)"
		view.Badge = "請檢查程式日誌"
		view.IsError = true
	default:
		return nil, fmt.Errorf("unknown notification kind %v", data.Kind)
	}

	var htmlBuf bytes.Buffer
	if err := r.tmpl.Execute(&htmlBuf, view); err != nil {
		return nil, fmt.Errorf("failed to render HTML template: %w", err)
	}

	return &RenderedMessage{
		Kind:    data.Kind,
		Subject: subject,
		Text:    text,
		HTML:    htmlBuf.String(),
	}, nil
}

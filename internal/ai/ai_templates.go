package ai

import (
	"fmt"

	"google.golang.org/genai"

	"github.com/shanehull/dvwatch/internal/types"
)

const extractionPromptTemplate = `
你是一個資訊提取助理。請仔細分析以下來自美國國務院官方網站的文字，
提取出【最新】的「多元簽證計畫 (Diversity Visa)」的資訊。

請嚴格按照以下 JSON 格式回傳。
如果文字中沒有提到相關資訊，請在欄位中回傳 "%s"。

{
  "program_year": "例如: DV-2027",
  "start_date": "例如: October 1, 2025",
  "end_date": "例如: November 4, 2025"
}

---
網站文字開始：
%s
---
網站文字結束。

請嚴格回傳 JSON：
`

// BuildPrompt embeds the page text verbatim in the extraction instruction.
func BuildPrompt(pageText string) string {
	return fmt.Sprintf(extractionPromptTemplate, types.NotFoundSentinel, pageText)
}

func getResponseSchema() *genai.Schema {
	field := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc}
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			fieldProgramYear: field(`Latest DV program year, e.g. "DV-2027", or "Not Found".`),
			fieldStartDate:   field(`First day of the entry period, e.g. "October 1, 2025", or "Not Found".`),
			fieldEndDate:     field(`Last day of the entry period, e.g. "November 4, 2025", or "Not Found".`),
		},
		Required:         []string{fieldProgramYear, fieldStartDate, fieldEndDate},
		PropertyOrdering: []string{fieldProgramYear, fieldStartDate, fieldEndDate},
	}
}

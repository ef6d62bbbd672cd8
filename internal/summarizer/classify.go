package summarizer

import (
	"regexp"
	"strings"

	"github.com/prasetyadi/meeting-summarizer/internal/domain"
)

// Edit intent is detected by verbs that ask for the summary to change. ASCII
// keywords are matched on word boundaries so "add" does not fire on
// "address"; CJK keywords are matched by substring.
var editWordPattern = regexp.MustCompile(`(?i)\b(add|append|remove|delete|drop|change|rewrite|reword|rephrase|fix|correct|update|revise|edit|expand|shorten|condense|merge|reorder|clarify)\b`)

var editCJKKeywords = []string{
	"修改", "补充", "删除", "添加", "增加", "改成", "改为", "调整", "重写", "去掉", "精简", "扩充", "更正", "润色",
}

// ClassifyMessage infers whether free text asks a question about the meeting
// or requests a change to the summary. It is a pure function so the heuristic
// can be tested and swapped without touching the state machine.
func ClassifyMessage(text string) domain.MessageKind {
	if editWordPattern.MatchString(text) {
		return domain.KindEditRequest
	}
	for _, kw := range editCJKKeywords {
		if strings.Contains(text, kw) {
			return domain.KindEditRequest
		}
	}
	return domain.KindQuestion
}

package domain

import (
	"strings"
)

type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

type ChatTurn struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

type ChatRequest struct {
	Message string
	History []ChatTurn
}

func (r ChatRequest) Validate() (ChatRequest, error) {
	r.Message = strings.TrimSpace(r.Message)
	if r.Message == "" {
		return r, &ValidationError{Message: "message is required"}
	}
	for _, turn := range r.History {
		if turn.Role != ChatRoleUser && turn.Role != ChatRoleAssistant {
			return r, &ValidationError{Message: "history role must be user or assistant"}
		}
	}
	return r, nil
}

type ChatReply struct {
	Reply     string `json:"reply"`
	ReplyHtml string `json:"replyHtml"`
	Fallback  bool   `json:"fallback"`
}

const (
	AdvisorErrorReply = "Something went wrong talking to the advisor. Try again!"
	AdvisorEmptyReply = "I'm having trouble responding right now. Try again!"
)

var QuickQuestions = []string{
	"Emergency fund vs TFSA?",
	"How to prep for mat leave?",
	"TFSA vs RRSP?",
	"How big should my emergency fund be?",
}

// AdvisorSystemPrompt keeps the model on Canadian personal finance. It is
// the only guard on topic, replies are not checked.
const AdvisorSystemPrompt = `You are "GrowYourDough Robo-Advisor", a friendly Canadian financial education chatbot.

Your scope:
- You ONLY answer questions about money, personal finance, saving, debt, investing, taxes, benefits, income changes, cost of living, and financial planning for life milestones.
- You focus especially on: emergency funds, TFSA, FHSA, RRSP, non-registered investing, home down payments, maternity/parental leave, career breaks, and retirement planning in Canada.

Hard rules:
- If the user asks about anything outside money/finance (e.g., relationships, school assignments, coding, medicine, gossip, trivia), politely say you are only set up to talk about money and suggest they ask a financial question instead.
- Do NOT answer non-finance questions directly.
- Keep answers concise and structured (bullets or short paragraphs).
- Always include a short disclaimer like: "This is general education, not personal financial advice."`

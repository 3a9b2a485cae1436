package service

import (
	"bytes"
	"context"
	"strings"

	"growyourdough/internal/domain"
	"growyourdough/internal/logger"
	"growyourdough/internal/repository"

	"github.com/yuin/goldmark"
)

type AdvisorService interface {
	Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatReply, error)
	QuickQuestions() []string
}

type advisorServiceHandler struct {
	AdvisorRepository repository.AdvisorRepository
	Markdown          goldmark.Markdown
}

func NewAdvisorService(advisorRepository repository.AdvisorRepository) AdvisorService {
	return advisorServiceHandler{
		AdvisorRepository: advisorRepository,
		Markdown:          goldmark.New(),
	}
}

func (h advisorServiceHandler) QuickQuestions() []string {
	return append([]string{}, domain.QuickQuestions...)
}

// Chat only fails on bad input. Provider errors turn into a friendly
// fallback reply and are logged.
func (h advisorServiceHandler) Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatReply, error) {
	log := logger.FromContext(ctx)

	req, err := req.Validate()
	if err != nil {
		return nil, err
	}

	fallback := false
	reply, err := h.AdvisorRepository.Send(ctx, domain.AdvisorSystemPrompt, req.Message, req.History)
	if err != nil {
		log.Errorw("advisor request failed", "error", err)
		reply = domain.AdvisorErrorReply
		fallback = true
	} else if strings.TrimSpace(reply) == "" {
		log.Warnw("advisor returned an empty reply")
		reply = domain.AdvisorEmptyReply
		fallback = true
	}
	reply = strings.TrimSpace(reply)

	html := bytes.Buffer{}
	if err := h.Markdown.Convert([]byte(reply), &html); err != nil {
		log.Warnw("failed to render advisor reply", "error", err)
		html.Reset()
	}

	return &domain.ChatReply{
		Reply:     reply,
		ReplyHtml: html.String(),
		Fallback:  fallback,
	}, nil
}

// Package gateway turns workflow requests into LLM calls and typed answers.
package gateway

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/helmcode/gbp-pulse/pkg/apperr"
	"github.com/helmcode/gbp-pulse/pkg/llm"
	"github.com/helmcode/gbp-pulse/pkg/model"
	"github.com/helmcode/gbp-pulse/pkg/parser"
	"github.com/helmcode/gbp-pulse/pkg/prompts"
)

// FallbackContent replaces an empty content answer.
const FallbackContent = "Failed to generate content. Please check your inputs."

// Gateway is the generation backend as seen by the workflow components.
type Gateway interface {
	Diagnose(ctx context.Context, bc model.BusinessContext) (*model.Diagnosis, error)
	GenerateContent(ctx context.Context, tool model.Tool, bc model.BusinessContext, input string) (string, error)
	ValidateProfile(ctx context.Context, draft model.NewProfileData) (*model.ValidationResult, error)
	GenerateGuide(ctx context.Context, title, description string, bc model.BusinessContext) (*model.StepGuide, error)
	Chat(ctx context.Context, history []model.ChatMessage, message string, bc *model.BusinessContext) (string, error)
}

// Service implements Gateway on top of an llm.LLM.
type Service struct {
	llm    llm.LLM
	logger *zap.Logger
}

func New(l llm.LLM, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{llm: l, logger: logger.Named("gateway")}
}

func (s *Service) call(ctx context.Context, op string, req llm.Request) (string, error) {
	start := time.Now()
	raw, err := s.llm.Chat(ctx, req)
	fields := []zap.Field{
		zap.String("op", op),
		zap.String("model", s.llm.Model()),
		zap.Bool("fast", req.Fast),
		zap.Duration("took", time.Since(start)),
	}
	if err != nil {
		s.logger.Warn("LLM chat failed", append(fields, zap.Error(err))...)
		return "", apperr.Gateway(op+" request failed", err)
	}
	s.logger.Debug("LLM chat", append(fields, zap.Int("bytes", len(raw)))...)
	return raw, nil
}

func (s *Service) Diagnose(ctx context.Context, bc model.BusinessContext) (*model.Diagnosis, error) {
	req := llm.Prompt(prompts.System, prompts.BuildDiagnosePrompt(bc))
	req.JSON = true

	raw, err := s.call(ctx, "diagnose", req)
	if err != nil {
		return nil, err
	}
	d, err := parser.ParseDiagnosis(raw)
	if err != nil {
		s.logger.Warn("diagnosis response rejected", zap.Error(err))
		return nil, err
	}
	return d, nil
}

func (s *Service) GenerateContent(ctx context.Context, tool model.Tool, bc model.BusinessContext, input string) (string, error) {
	if !tool.Valid() {
		return "", apperr.Input("Unknown content tool.")
	}
	req := llm.Prompt(prompts.System, prompts.BuildContentPrompt(tool, bc, input))
	req.Fast = true

	raw, err := s.call(ctx, "content", req)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(raw) == "" {
		return FallbackContent, nil
	}
	return strings.TrimSpace(raw), nil
}

func (s *Service) ValidateProfile(ctx context.Context, draft model.NewProfileData) (*model.ValidationResult, error) {
	req := llm.Prompt(prompts.System, prompts.BuildAuditPrompt(draft))
	req.JSON = true

	raw, err := s.call(ctx, "audit", req)
	if err != nil {
		return nil, err
	}
	r, err := parser.ParseValidation(raw)
	if err != nil {
		s.logger.Warn("audit response rejected", zap.Error(err))
		return nil, err
	}
	return r, nil
}

// GenerateGuide returns a fallback guide alongside a malformed-response error
// so callers may still show the raw answer.
func (s *Service) GenerateGuide(ctx context.Context, title, description string, bc model.BusinessContext) (*model.StepGuide, error) {
	req := llm.Prompt(prompts.System, prompts.BuildGuidePrompt(title, description, bc))
	req.JSON = true
	req.Fast = true

	raw, err := s.call(ctx, "guide", req)
	if err != nil {
		return nil, err
	}
	return parser.ParseGuide(raw, title)
}

func (s *Service) Chat(ctx context.Context, history []model.ChatMessage, message string, bc *model.BusinessContext) (string, error) {
	req := llm.Request{System: prompts.ChatSystem(bc), Fast: true}
	for _, m := range history {
		role := llm.RoleUser
		if m.Role == model.RoleModel {
			role = llm.RoleModel
		}
		req.Messages = append(req.Messages, llm.Message{Role: role, Text: m.Text})
	}
	req.Messages = append(req.Messages, llm.Message{Role: llm.RoleUser, Text: message})

	return s.call(ctx, "chat", req)
}

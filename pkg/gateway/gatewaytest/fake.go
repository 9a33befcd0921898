// Package gatewaytest provides a scriptable gateway.Gateway for tests.
package gatewaytest

import (
	"context"
	"errors"
	"sync"

	"github.com/helmcode/gbp-pulse/pkg/model"
)

var ErrNotScripted = errors.New("gatewaytest: call not scripted")

// Fake answers each call through the matching function field. Unset fields
// fail with ErrNotScripted. Calls are counted per operation.
type Fake struct {
	DiagnoseFunc func(ctx context.Context, bc model.BusinessContext) (*model.Diagnosis, error)
	ContentFunc  func(ctx context.Context, tool model.Tool, bc model.BusinessContext, input string) (string, error)
	ValidateFunc func(ctx context.Context, draft model.NewProfileData) (*model.ValidationResult, error)
	GuideFunc    func(ctx context.Context, title, description string, bc model.BusinessContext) (*model.StepGuide, error)
	ChatFunc     func(ctx context.Context, history []model.ChatMessage, message string, bc *model.BusinessContext) (string, error)

	mu    sync.Mutex
	calls map[string]int
}

func (f *Fake) count(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[op]++
}

// Calls returns how many times op was invoked.
func (f *Fake) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *Fake) Diagnose(ctx context.Context, bc model.BusinessContext) (*model.Diagnosis, error) {
	f.count("diagnose")
	if f.DiagnoseFunc == nil {
		return nil, ErrNotScripted
	}
	return f.DiagnoseFunc(ctx, bc)
}

func (f *Fake) GenerateContent(ctx context.Context, tool model.Tool, bc model.BusinessContext, input string) (string, error) {
	f.count("content")
	if f.ContentFunc == nil {
		return "", ErrNotScripted
	}
	return f.ContentFunc(ctx, tool, bc, input)
}

func (f *Fake) ValidateProfile(ctx context.Context, draft model.NewProfileData) (*model.ValidationResult, error) {
	f.count("validate")
	if f.ValidateFunc == nil {
		return nil, ErrNotScripted
	}
	return f.ValidateFunc(ctx, draft)
}

func (f *Fake) GenerateGuide(ctx context.Context, title, description string, bc model.BusinessContext) (*model.StepGuide, error) {
	f.count("guide")
	if f.GuideFunc == nil {
		return nil, ErrNotScripted
	}
	return f.GuideFunc(ctx, title, description, bc)
}

func (f *Fake) Chat(ctx context.Context, history []model.ChatMessage, message string, bc *model.BusinessContext) (string, error) {
	f.count("chat")
	if f.ChatFunc == nil {
		return "", ErrNotScripted
	}
	return f.ChatFunc(ctx, history, message, bc)
}

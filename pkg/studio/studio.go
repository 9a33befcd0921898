// Package studio holds the per-tool drafts and outputs of the content studio.
//
// A generation is split into Begin, Execute and Apply so the gateway call can
// run off the caller's loop. The Request captures its tool, so a result always
// lands on the tool it was issued for, whatever tool is active by then.
package studio

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/helmcode/gbp-pulse/pkg/apperr"
	"github.com/helmcode/gbp-pulse/pkg/gateway"
	"github.com/helmcode/gbp-pulse/pkg/model"
)

// FailureText replaces the output of a tool whose generation failed.
const FailureText = "Generation failed. Please try again."

var (
	ErrIdentityRequired = apperr.Input("Set your business name and industry before generating content.")
	ErrInputRequired    = apperr.Input("Enter some details for this tool first.")
	ErrUnknownTool      = apperr.Input("Unknown content tool.")
)

// Entry is the draft and last output of one tool.
type Entry struct {
	Input  string `json:"input" yaml:"input"`
	Output string `json:"output" yaml:"output"`
}

// ReplyRecord is one generated review reply.
type ReplyRecord struct {
	Input  string    `json:"input" yaml:"input"`
	Output string    `json:"output" yaml:"output"`
	At     time.Time `json:"at" yaml:"at"`
}

// Request is a generation captured at the moment it was issued.
type Request struct {
	Tool       model.Tool
	Input      string
	Context    model.BusinessContext
	Generation uint64
	Token      uint64
}

type Completion struct {
	Request
	Output string
	Err    error
}

type Session struct {
	mu         sync.Mutex
	generation uint64
	active     model.Tool
	entries    [model.NumTools]Entry
	latest     [model.NumTools]uint64
	loading    [model.NumTools]bool
	token      uint64
	copied     bool
	publish    bool
	replies    []ReplyRecord
	now        func() time.Time
	logger     *zap.Logger
}

// New returns an empty session bound to a session generation. Completions
// issued by another generation are never applied.
func New(generation uint64, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		generation: generation,
		active:     model.ToolDescription,
		now:        time.Now,
		logger:     logger.Named("studio"),
	}
}

func (s *Session) Generation() uint64 { return s.generation }

func (s *Session) Active() model.Tool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Select switches the active tool. No entry is touched.
func (s *Session) Select(tool model.Tool) error {
	if !tool.Valid() {
		return ErrUnknownTool
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != tool {
		s.active = tool
		s.copied = false
		s.publish = false
	}
	return nil
}

func (s *Session) SetInput(tool model.Tool, text string) error {
	if !tool.Valid() {
		return ErrUnknownTool
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[tool].Input = text
	return nil
}

// SetOutput stores a user edit of the generated text.
func (s *Session) SetOutput(tool model.Tool, text string) error {
	if !tool.Valid() {
		return ErrUnknownTool
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[tool].Output = text
	return nil
}

func (s *Session) Entry(tool model.Tool) Entry {
	if !tool.Valid() {
		return Entry{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[tool]
}

func (s *Session) InFlight(tool model.Tool) bool {
	if !tool.Valid() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading[tool]
}

// Clear empties the input and output of one tool and hides the publish guide.
// A generation already in flight for the tool still lands when it resolves.
func (s *Session) Clear(tool model.Tool) error {
	if !tool.Valid() {
		return ErrUnknownTool
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[tool] = Entry{}
	s.publish = false
	if tool == s.active {
		s.copied = false
	}
	return nil
}

// Begin checks the preconditions of a generation and marks the tool in
// flight. On error nothing changes and no gateway call should be made.
func (s *Session) Begin(tool model.Tool, bc model.BusinessContext) (Request, error) {
	if !tool.Valid() {
		return Request{}, ErrUnknownTool
	}
	if !bc.HasIdentity() {
		return Request{}, ErrIdentityRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	input := s.entries[tool].Input
	if strings.TrimSpace(input) == "" {
		return Request{}, ErrInputRequired
	}

	s.token++
	s.latest[tool] = s.token
	s.loading[tool] = true
	s.copied = false
	s.publish = false

	return Request{
		Tool:       tool,
		Input:      input,
		Context:    bc,
		Generation: s.generation,
		Token:      s.token,
	}, nil
}

// Execute performs the gateway call of req. It touches no session state.
func Execute(ctx context.Context, gw gateway.Gateway, req Request) Completion {
	out, err := gw.GenerateContent(ctx, req.Tool, req.Context, req.Input)
	return Completion{Request: req, Output: out, Err: err}
}

// Apply writes c into the tool it was issued for. It reports false when c
// belongs to another session generation or was superseded by a newer request
// for the same tool.
func (s *Session) Apply(c Completion) bool {
	if !c.Tool.Valid() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.Generation != s.generation || c.Token != s.latest[c.Tool] {
		s.logger.Debug("discarding stale generation",
			zap.Stringer("tool", c.Tool), zap.Uint64("token", c.Token))
		return false
	}
	s.loading[c.Tool] = false

	if c.Err != nil {
		s.logger.Warn("generation failed", zap.Stringer("tool", c.Tool), zap.Error(c.Err))
		s.entries[c.Tool].Output = FailureText
		return true
	}

	s.entries[c.Tool].Output = c.Output
	if c.Tool == model.ToolReply {
		s.replies = append(s.replies, ReplyRecord{Input: c.Input, Output: c.Output, At: s.now()})
	}
	return true
}

// Generate runs a whole generation synchronously.
func (s *Session) Generate(ctx context.Context, gw gateway.Gateway, tool model.Tool, bc model.BusinessContext) (Completion, error) {
	req, err := s.Begin(tool, bc)
	if err != nil {
		return Completion{}, err
	}
	c := Execute(ctx, gw, req)
	s.Apply(c)
	return c, nil
}

// MarkCopied records that the active output was copied. It reports false when
// there is nothing to copy.
func (s *Session) MarkCopied() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading[s.active] || strings.TrimSpace(s.entries[s.active].Output) == "" {
		return false
	}
	s.copied = true
	return true
}

func (s *Session) Copied() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copied
}

// ShowPublishGuide opens the publish instructions for the active output.
func (s *Session) ShowPublishGuide() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading[s.active] || strings.TrimSpace(s.entries[s.active].Output) == "" {
		return false
	}
	s.publish = true
	return true
}

func (s *Session) PublishGuideVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.publish
}

// Replies returns the review replies generated in this session, oldest first.
func (s *Session) Replies() []ReplyRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ReplyRecord, len(s.replies))
	copy(out, s.replies)
	return out
}

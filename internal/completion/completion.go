// Package completion is the sole boundary to the external generative text
// service. Vendors sit behind the eino chat-model abstraction so swapping
// providers is a construction change, not a rewrite.
package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"auditgo/internal/config"
)

// Completer sends one prompt to a generative text service and returns the
// generated text. It is the only component replaced by a test double.
type Completer interface {
	Complete(ctx context.Context, prompt string, temperature float32, maxTokens int) (string, error)
}

// ServiceError carries a vendor failure back to the caller. The pipeline
// performs zero retries: every completion failure is terminal for its request.
type ServiceError struct {
	Provider string
	Err      error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("completion error (%s): %v", e.Provider, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Service implements Completer on top of a configured eino chat model.
type Service struct {
	provider  string
	modelName string
	chatModel model.BaseChatModel
}

// NewService builds the chat model for the provider selected in config.
func NewService(ctx context.Context, cfg *config.Config) (*Service, error) {
	name := strings.ToLower(cfg.BasicConfig.Provider)
	provCfg, ok := cfg.Providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %q not configured", name)
	}
	apiKey := cfg.ResolveAPIKey(name)
	if apiKey == "" {
		return nil, fmt.Errorf("api key for provider %q missing", name)
	}

	var (
		chatModel model.BaseChatModel
		err       error
	)
	switch name {
	case "openai":
		chatModel, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL: provCfg.BaseURL,
			Model:   provCfg.Model,
			APIKey:  apiKey,
		})
	case "claude":
		var baseURLPtr *string
		if provCfg.BaseURL != "" {
			baseURLPtr = &provCfg.BaseURL
		}
		chatModel, err = claude.NewChatModel(ctx, &claude.Config{
			APIKey:    apiKey,
			Model:     provCfg.Model,
			BaseURL:   baseURLPtr,
			MaxTokens: 4096,
		})
	case "gemini":
		var client *genai.Client
		client, err = genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		chatModel, err = gemini.NewChatModel(ctx, &gemini.Config{
			Client: client,
			Model:  provCfg.Model,
		})
	default:
		return nil, fmt.Errorf("invalid provider: %s", name)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s chat model: %w", name, err)
	}

	return &Service{
		provider:  name,
		modelName: provCfg.Model,
		chatModel: chatModel,
	}, nil
}

// Provider returns the configured vendor name.
func (s *Service) Provider() string {
	return s.provider
}

// ModelName returns the configured model identifier.
func (s *Service) ModelName() string {
	return s.modelName
}

// Complete sends the prompt and returns the generated text. Any transport or
// vendor failure comes back as *ServiceError.
func (s *Service) Complete(ctx context.Context, prompt string, temperature float32, maxTokens int) (string, error) {
	msg, err := s.chatModel.Generate(ctx,
		[]*schema.Message{schema.UserMessage(prompt)},
		model.WithTemperature(temperature),
		model.WithMaxTokens(maxTokens),
	)
	if err != nil {
		return "", &ServiceError{Provider: s.provider, Err: err}
	}
	content := strings.TrimSpace(msg.Content)
	if content == "" {
		return "", &ServiceError{Provider: s.provider, Err: errors.New("empty completion")}
	}
	return content, nil
}

// Package generator wraps the Gemini agent pipeline behind a small
// text-in, text-out surface. Model output is requested as JSON and
// parsed defensively; callers always get a usable result even when the
// model returns junk.
package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"
)

// retry retries a function up to `attempts` times with exponential backoff
func retry[T any](attempts int, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for i := 0; i < attempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		wait := time.Duration(500*(i+1)) * time.Millisecond
		time.Sleep(wait)
	}
	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}

type Generator struct {
	appName  string
	runner   *runner.Runner
	sessions session.Service
}

// New builds a generator around one agent. name doubles as the agent
// app name; instruction is the system prompt.
func New(apiKey, name, instruction string) (*Generator, error) {
	customAgent, err := newAgent(apiKey, name, instruction)
	if err != nil {
		return nil, err
	}

	inMemoryService := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        name,
		Agent:          customAgent,
		SessionService: inMemoryService,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}

	return &Generator{
		appName:  name,
		runner:   r,
		sessions: inMemoryService,
	}, nil
}

// Run sends input through the agent and returns the final text
// response. Each call gets its own throwaway agent session.
func (g *Generator) Run(ctx context.Context, userID, input string) (string, error) {
	agentSession, err := g.sessions.Create(ctx, &session.CreateRequest{
		AppName:   g.appName,
		UserID:    userID,
		SessionID: uuid.New().String(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create agent session: %w", err)
	}
	defer func() {
		_ = g.sessions.Delete(ctx, &session.DeleteRequest{
			AppName:   agentSession.Session.AppName(),
			UserID:    agentSession.Session.UserID(),
			SessionID: agentSession.Session.ID(),
		})
	}()

	return retry(2, func() (string, error) {
		stream := g.runner.Run(ctx, agentSession.Session.UserID(), agentSession.Session.ID(), &genai.Content{
			Role: "user",
			Parts: []*genai.Part{
				{Text: input},
			},
		}, agent.RunConfig{})

		var output string
		for event, err := range stream {
			if err != nil {
				return "", err
			}
			if event != nil && event.IsFinalResponse() && len(event.Content.Parts) > 0 {
				output = event.Content.Parts[0].Text
			}
		}

		if output == "" {
			return "", fmt.Errorf("empty agent response")
		}
		return output, nil
	})
}

// CleanJSON strips markdown code fences the model sometimes wraps its
// JSON in.
func CleanJSON(input string) string {
	clean := strings.TrimSpace(input)

	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")

	clean = strings.TrimSuffix(clean, "```")

	return strings.TrimSpace(clean)
}

package generator

import (
	"context"
	"fmt"
	"sync"
)

// scriptedLLM answers calls in order and records every prompt it receives.
type scriptedLLM struct {
	mu        sync.Mutex
	responses []string
	errs      map[int]error
	prompts   []Prompt
}

func (s *scriptedLLM) Complete(_ context.Context, p Prompt) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := len(s.prompts)
	s.prompts = append(s.prompts, p)
	if err := s.errs[i]; err != nil {
		return "", err
	}
	if i >= len(s.responses) {
		return "", fmt.Errorf("unexpected call %d", i)
	}
	return s.responses[i], nil
}

func (s *scriptedLLM) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

// recorder collects progress events.
type recorder struct {
	mu     sync.Mutex
	events []Progress
}

func (r *recorder) Observe(p Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, p)
}

func (r *recorder) percents() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, len(r.events))
	for i, e := range r.events {
		out[i] = e.Percent
	}
	return out
}

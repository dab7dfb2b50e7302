package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"yt2tutorial/generator"
	"yt2tutorial/render"
)

type jobState string

const (
	stateRunning jobState = "running"
	stateDone    jobState = "done"
	stateFailed  jobState = "failed"
)

// job tracks one generation request.
type job struct {
	id     string
	url    string
	events *generator.Broadcaster
	done   chan struct{}

	mu       sync.Mutex
	state    jobState
	tutorial *generator.Tutorial
	html     string
	outline  []render.Heading
	err      error
}

func newJob(url string) *job {
	return &job{
		id:     uuid.NewString(),
		url:    url,
		events: generator.NewBroadcaster(),
		done:   make(chan struct{}),
		state:  stateRunning,
	}
}

// finish records the outcome, then closes the event stream so subscribers see a final state.
func (j *job) finish(t *generator.Tutorial, err error) {
	j.mu.Lock()
	if err != nil {
		j.state = stateFailed
		j.err = err
	} else {
		j.state = stateDone
		j.tutorial = t
		j.outline = render.Outline(t.Markdown)
		html, herr := render.HTML(t.Markdown)
		if herr != nil {
			j.state = stateFailed
			j.err = herr
		}
		j.html = html
	}
	j.mu.Unlock()
	j.events.Close()
	close(j.done)
}

type jobView struct {
	ID       string           `json:"id"`
	URL      string           `json:"url"`
	State    jobState         `json:"state"`
	Progress int              `json:"progress"`
	Label    string           `json:"label,omitempty"`
	Title    string           `json:"title,omitempty"`
	Markdown string           `json:"markdown,omitempty"`
	HTML     string           `json:"html,omitempty"`
	Outline  []render.Heading `json:"outline,omitempty"`
	Digest   string           `json:"digest,omitempty"`
	Links    []string         `json:"links,omitempty"`
	Fallback bool             `json:"fallback,omitempty"`
	Error    string           `json:"error,omitempty"`
}

func (j *job) view() jobView {
	j.mu.Lock()
	defer j.mu.Unlock()
	v := jobView{ID: j.id, URL: j.url, State: j.state}
	if p, ok := j.events.Last(); ok {
		v.Progress = p.Percent
		v.Label = p.Label
	}
	if j.err != nil {
		v.Error = j.err.Error()
	}
	if j.tutorial != nil && j.state == stateDone {
		v.Progress = 100
		v.Title = j.tutorial.Title
		v.Markdown = j.tutorial.Markdown
		v.HTML = j.html
		v.Outline = j.outline
		v.Digest = j.tutorial.Digest
		v.Links = j.tutorial.Links
		v.Fallback = j.tutorial.Fallback
	}
	return v
}

type jobStore struct {
	mu        sync.Mutex
	jobs      map[string]*job
	retention time.Duration
}

func newStore(retention time.Duration) *jobStore {
	return &jobStore{jobs: make(map[string]*job), retention: retention}
}

func (s *jobStore) add(j *job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[j.id] = j
}

func (s *jobStore) get(id string) (*job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	return j, ok
}

// expire drops j once the retention period has passed.
func (s *jobStore) expire(j *job) {
	time.AfterFunc(s.retention, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.jobs, j.id)
	})
}

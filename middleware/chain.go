// ABOUTME: Ordered, named request/response pipeline for the API client
// ABOUTME: Stages run in declaration order and can be listed for inspection

package middleware

import (
	"fmt"
	"net/http"
)

// RequestFunc transforms an outgoing request. The request belongs to the
// current attempt only, so stages may modify it in place.
type RequestFunc func(*http.Request) (*http.Request, error)

// ResponseFunc transforms an incoming response before the client reads it.
type ResponseFunc func(*http.Response) (*http.Response, error)

// RequestStage is a named request transformation.
type RequestStage struct {
	Name string
	Fn   RequestFunc
}

// ResponseStage is a named response transformation.
type ResponseStage struct {
	Name string
	Fn   ResponseFunc
}

// Pipeline holds request and response stages.
// Build it before first use; it is not safe to add stages while requests run.
type Pipeline struct {
	requests  []RequestStage
	responses []ResponseStage
}

// NewPipeline creates an empty pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// UseRequest appends request stages.
func (p *Pipeline) UseRequest(stages ...RequestStage) *Pipeline {
	p.requests = append(p.requests, stages...)
	return p
}

// UseResponse appends response stages.
func (p *Pipeline) UseResponse(stages ...ResponseStage) *Pipeline {
	p.responses = append(p.responses, stages...)
	return p
}

// RequestStages returns stage names in execution order.
func (p *Pipeline) RequestStages() []string {
	names := make([]string, len(p.requests))
	for i, s := range p.requests {
		names[i] = s.Name
	}
	return names
}

// ResponseStages returns stage names in execution order.
func (p *Pipeline) ResponseStages() []string {
	names := make([]string, len(p.responses))
	for i, s := range p.responses {
		names[i] = s.Name
	}
	return names
}

// ApplyRequest runs every request stage in order. The first failing stage
// stops the pipeline.
func (p *Pipeline) ApplyRequest(r *http.Request) (*http.Request, error) {
	var err error
	for _, s := range p.requests {
		r, err = s.Fn(r)
		if err != nil {
			return nil, fmt.Errorf("request stage %s: %w", s.Name, err)
		}
	}
	return r, nil
}

// ApplyResponse runs every response stage in order.
func (p *Pipeline) ApplyResponse(resp *http.Response) (*http.Response, error) {
	var err error
	for _, s := range p.responses {
		resp, err = s.Fn(resp)
		if err != nil {
			return nil, fmt.Errorf("response stage %s: %w", s.Name, err)
		}
	}
	return resp, nil
}

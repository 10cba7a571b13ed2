// Package middleware provides the HTTP middleware shared by the API and
// dashboard modules.
package middleware

import "net/http"

// Middleware wraps a handler.
type Middleware func(http.Handler) http.Handler

// Chain is an ordered middleware stack. The first middleware added runs
// outermost.
type Chain struct {
	stack []Middleware
}

// New creates an empty Chain.
func New() *Chain {
	return &Chain{}
}

// Use appends mw to the chain.
func (c *Chain) Use(mw Middleware) {
	c.stack = append(c.stack, mw)
}

// Len reports how many middleware the chain holds.
func (c *Chain) Len() int {
	return len(c.stack)
}

// Then wraps handler with every middleware of the chain.
func (c *Chain) Then(handler http.Handler) http.Handler {
	for i := len(c.stack) - 1; i >= 0; i-- {
		handler = c.stack[i](handler)
	}
	return handler
}

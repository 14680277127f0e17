// Package mocks provides testify mocks for llm interfaces.
package mocks

import (
	"context"

	"github.com/ashureev/avika/internal/llm"
	"github.com/stretchr/testify/mock"
)

// Generator is a mock type for the llm.Generator type.
type Generator struct {
	mock.Mock
}

// Generate provides a mock function with given fields: ctx, prompt.
func (_m *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	ret := _m.Called(ctx, prompt)

	var r0 string
	if rf, ok := ret.Get(0).(func(context.Context, string) string); ok {
		r0 = rf(ctx, prompt)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(string)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, prompt)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewGenerator creates a Generator mock and asserts its expectations on cleanup.
func NewGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *Generator {
	m := &Generator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ llm.Generator = (*Generator)(nil)

package pr

import "context"

// MockProvider is a mock implementation of Provider for testing.
type MockProvider struct {
	GetPRFunc    func(ctx context.Context, number int) (*PullRequest, error)
	ListPRsFunc  func(ctx context.Context, filter Filter) ([]*PullRequest, error)
	CreatePRFunc func(ctx context.Context, opts Options) (*PullRequest, error)
	UpdatePRFunc func(ctx context.Context, number int, opts UpdateOptions) (*PullRequest, error)
}

// GetPR implements Provider.
func (m *MockProvider) GetPR(ctx context.Context, number int) (*PullRequest, error) {
	if m.GetPRFunc != nil {
		return m.GetPRFunc(ctx, number)
	}
	return &PullRequest{Number: number, State: StateOpen}, nil
}

// ListPRs implements Provider.
func (m *MockProvider) ListPRs(ctx context.Context, filter Filter) ([]*PullRequest, error) {
	if m.ListPRsFunc != nil {
		return m.ListPRsFunc(ctx, filter)
	}
	return []*PullRequest{}, nil
}

// CreatePR implements Provider.
func (m *MockProvider) CreatePR(ctx context.Context, opts Options) (*PullRequest, error) {
	if m.CreatePRFunc != nil {
		return m.CreatePRFunc(ctx, opts)
	}
	return &PullRequest{Number: 1, URL: "https://example.com/pr/1"}, nil
}

// UpdatePR implements Provider.
func (m *MockProvider) UpdatePR(ctx context.Context, number int, opts UpdateOptions) (*PullRequest, error) {
	if m.UpdatePRFunc != nil {
		return m.UpdatePRFunc(ctx, number, opts)
	}
	return &PullRequest{Number: number}, nil
}

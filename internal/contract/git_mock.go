package contract

import (
	"context"

	"github.com/huangsam/coredev/schema"
	"github.com/stretchr/testify/mock"
)

// MockGitClient is a mock implementation of GitClient for testing.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	mockArgs := []any{ctx, repoPath}
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// GetRepoRoot implements the GitClient interface.
func (m *MockGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	ret := m.Called(ctx, contextPath)
	return ret.String(0), ret.Error(1)
}

// GetRemoteURL implements the GitClient interface.
func (m *MockGitClient) GetRemoteURL(ctx context.Context, repoPath string, remote string) (string, error) {
	ret := m.Called(ctx, repoPath, remote)
	return ret.String(0), ret.Error(1)
}

// GetCommitLog implements the GitClient interface.
func (m *MockGitClient) GetCommitLog(ctx context.Context, repoPath string) ([]schema.CommitRecord, error) {
	ret := m.Called(ctx, repoPath)
	commits, _ := ret.Get(0).([]schema.CommitRecord)
	return commits, ret.Error(1)
}

// GetTags implements the GitClient interface.
func (m *MockGitClient) GetTags(ctx context.Context, repoPath string) ([]schema.Tag, error) {
	ret := m.Called(ctx, repoPath)
	tags, _ := ret.Get(0).([]schema.Tag)
	return tags, ret.Error(1)
}

// MockLoginResolver is a mock implementation of LoginResolver for testing.
type MockLoginResolver struct {
	mock.Mock
}

var _ LoginResolver = &MockLoginResolver{} // Compile-time check

// ResolveLogin implements the LoginResolver interface.
func (m *MockLoginResolver) ResolveLogin(ctx context.Context, sha string) (string, error) {
	ret := m.Called(ctx, sha)
	return ret.String(0), ret.Error(1)
}

// MockParticipationSource is a mock implementation of ParticipationSource for testing.
type MockParticipationSource struct {
	mock.Mock
}

var _ ParticipationSource = &MockParticipationSource{} // Compile-time check

// PullRequests implements the ParticipationSource interface.
func (m *MockParticipationSource) PullRequests(ctx context.Context) ([]schema.Participation, error) {
	ret := m.Called(ctx)
	items, _ := ret.Get(0).([]schema.Participation)
	return items, ret.Error(1)
}

// Issues implements the ParticipationSource interface.
func (m *MockParticipationSource) Issues(ctx context.Context) ([]schema.Participation, error) {
	ret := m.Called(ctx)
	items, _ := ret.Get(0).([]schema.Participation)
	return items, ret.Error(1)
}

// Releases implements the ParticipationSource interface.
func (m *MockParticipationSource) Releases(ctx context.Context) ([]schema.Release, error) {
	ret := m.Called(ctx)
	releases, _ := ret.Get(0).([]schema.Release)
	return releases, ret.Error(1)
}

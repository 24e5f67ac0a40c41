package contract

import (
	"context"

	"github.com/huangsam/repohealth/schema"
	"github.com/stretchr/testify/mock"
)

// MockWarehouse is a mock implementation of Warehouse for testing.
type MockWarehouse struct {
	mock.Mock
}

var _ Warehouse = &MockWarehouse{} // Compile-time check

// StarForkAggregates implements the Warehouse interface.
func (m *MockWarehouse) StarForkAggregates(ctx context.Context, key schema.ProjectKey, windows schema.ReferenceWindows) schema.StarForkAggregate {
	ret := m.Called(ctx, key, windows)
	agg, _ := ret.Get(0).(schema.StarForkAggregate)
	return agg
}

// CommitPRAggregates implements the Warehouse interface.
func (m *MockWarehouse) CommitPRAggregates(ctx context.Context, key schema.ProjectKey, windows schema.ReferenceWindows) schema.CommitPRAggregate {
	ret := m.Called(ctx, key, windows)
	agg, _ := ret.Get(0).(schema.CommitPRAggregate)
	return agg
}

// EventAggregates implements the Warehouse interface.
func (m *MockWarehouse) EventAggregates(ctx context.Context, key schema.ProjectKey) (schema.EventTypeAggregate, bool) {
	ret := m.Called(ctx, key)
	agg, _ := ret.Get(0).(schema.EventTypeAggregate)
	return agg, ret.Bool(1)
}

// TrendRows implements the Warehouse interface.
func (m *MockWarehouse) TrendRows(ctx context.Context, key schema.ProjectKey, metric schema.TrendMetric, limit int) []schema.TrendRow {
	ret := m.Called(ctx, key, metric, limit)
	rows, _ := ret.Get(0).([]schema.TrendRow)
	return rows
}

// ProjectSummary implements the Warehouse interface.
func (m *MockWarehouse) ProjectSummary(ctx context.Context, key schema.ProjectKey) schema.ProjectSummary {
	ret := m.Called(ctx, key)
	summary, _ := ret.Get(0).(schema.ProjectSummary)
	return summary
}

// ContributorCounts implements the Warehouse interface.
func (m *MockWarehouse) ContributorCounts(ctx context.Context, key schema.ProjectKey) []schema.ContributorCount {
	ret := m.Called(ctx, key)
	counts, _ := ret.Get(0).([]schema.ContributorCount)
	return counts
}

// ListProjects implements the Warehouse interface.
func (m *MockWarehouse) ListProjects(ctx context.Context) ([]string, error) {
	ret := m.Called(ctx)
	projects, _ := ret.Get(0).([]string)
	return projects, ret.Error(1)
}

// Close implements the Warehouse interface.
func (m *MockWarehouse) Close() error {
	return m.Called().Error(0)
}

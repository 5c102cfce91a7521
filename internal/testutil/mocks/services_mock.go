package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/chesscompare/internal/chesscom"
	"github.com/vytor/chesscompare/internal/models"
	"github.com/vytor/chesscompare/internal/table"
)

// MockPlayerService is a mock implementation of services.PlayerService
type MockPlayerService struct {
	mock.Mock
}

func (m *MockPlayerService) GetPlayer(ctx context.Context, username string) (*models.Player, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Player), args.Error(1)
}

func (m *MockPlayerService) GetRatings(ctx context.Context, username string) ([]models.RatingRow, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RatingRow), args.Error(1)
}

func (m *MockPlayerService) GetPuzzle(ctx context.Context) chesscom.Puzzle {
	args := m.Called(ctx)
	return args.Get(0).(chesscom.Puzzle)
}

// MockHistoryService is a mock implementation of services.HistoryService
type MockHistoryService struct {
	mock.Mock
}

func (m *MockHistoryService) BuildTable(ctx context.Context, username string) (*table.Table, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*table.Table), args.Error(1)
}

// MockComparisonService is a mock implementation of services.ComparisonService
type MockComparisonService struct {
	mock.Mock
}

func (m *MockComparisonService) Compare(ctx context.Context, username, mode, other string) (*models.Comparison, error) {
	args := m.Called(ctx, username, mode, other)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comparison), args.Error(1)
}

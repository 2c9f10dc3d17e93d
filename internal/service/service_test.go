package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shortlyhq/shortly/internal/database"
	"github.com/shortlyhq/shortly/internal/models"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type URLServiceTestSuite struct {
	suite.Suite
	errUnknown  error
	urlRepoMock *MockURLRepository
	svc         *URLService
}

func (suite *URLServiceTestSuite) SetupSuite() {
	suite.errUnknown = errors.New("unknown error")
}

func (suite *URLServiceTestSuite) SetupSubTest() {
	suite.urlRepoMock = new(MockURLRepository)
	suite.svc = NewURLService(suite.urlRepoMock, func() (string, error) {
		return "abc12345", nil
	})
}

func (suite *URLServiceTestSuite) TearDownSubTest() {
	suite.urlRepoMock.AssertExpectations(suite.T())
}

func (suite *URLServiceTestSuite) TestShortenURL() {
	ctx := context.Background()

	suite.Run("url already shortened", func() {
		suite.urlRepoMock.
			On("GetByOriginalURL", ctx, "https://example.com").
			Once().
			Return(&models.URL{ShortCode: "known123", OriginalURL: "https://example.com"}, nil)

		url, existing, err := suite.svc.ShortenURL(ctx, "https://example.com")

		suite.NoError(err)
		suite.True(existing)
		suite.Equal("known123", url.ShortCode)
		suite.urlRepoMock.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	suite.Run("lookup error", func() {
		suite.urlRepoMock.
			On("GetByOriginalURL", ctx, "https://example.com").
			Once().
			Return(nil, suite.errUnknown)

		url, existing, err := suite.svc.ShortenURL(ctx, "https://example.com")

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.False(existing)
		suite.Nil(url)
	})

	suite.Run("generator error", func() {
		suite.svc = NewURLService(suite.urlRepoMock, func() (string, error) {
			return "", suite.errUnknown
		})

		suite.urlRepoMock.
			On("GetByOriginalURL", ctx, "https://example.com").
			Once().
			Return(nil, database.ErrURLNotFound)

		url, existing, err := suite.svc.ShortenURL(ctx, "https://example.com")

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.False(existing)
		suite.Nil(url)
	})

	suite.Run("maximum retries error", func() {
		suite.urlRepoMock.
			On("GetByOriginalURL", ctx, "https://example.com").
			Once().
			Return(nil, database.ErrURLNotFound)
		suite.urlRepoMock.
			On("Create", ctx, "abc12345", "https://example.com").
			Times(5).
			Return(nil, database.ErrShortCodeExists)

		url, existing, err := suite.svc.ShortenURL(ctx, "https://example.com")

		suite.Error(err)
		suite.ErrorIs(err, ErrMaxRetriesExceeded)
		suite.False(existing)
		suite.Nil(url)
	})

	suite.Run("lost race against concurrent submission", func() {
		suite.urlRepoMock.
			On("GetByOriginalURL", ctx, "https://example.com").
			Once().
			Return(nil, database.ErrURLNotFound)
		suite.urlRepoMock.
			On("Create", ctx, "abc12345", "https://example.com").
			Once().
			Return(nil, database.ErrOriginalURLExists)
		suite.urlRepoMock.
			On("GetByOriginalURL", ctx, "https://example.com").
			Once().
			Return(&models.URL{ShortCode: "winner12", OriginalURL: "https://example.com"}, nil)

		url, existing, err := suite.svc.ShortenURL(ctx, "https://example.com")

		suite.NoError(err)
		suite.True(existing)
		suite.Equal("winner12", url.ShortCode)
	})

	suite.Run("unknown create error", func() {
		suite.urlRepoMock.
			On("GetByOriginalURL", ctx, "https://example.com").
			Once().
			Return(nil, database.ErrURLNotFound)
		suite.urlRepoMock.
			On("Create", ctx, "abc12345", "https://example.com").
			Once().
			Return(nil, suite.errUnknown)

		url, existing, err := suite.svc.ShortenURL(ctx, "https://example.com")

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.False(existing)
		suite.Nil(url)
	})

	suite.Run("success", func() {
		suite.urlRepoMock.
			On("GetByOriginalURL", ctx, "https://example.com").
			Once().
			Return(nil, database.ErrURLNotFound)
		suite.urlRepoMock.
			On("Create", ctx, "abc12345", "https://example.com").
			Once().
			Return(&models.URL{ShortCode: "abc12345", OriginalURL: "https://example.com"}, nil)

		url, existing, err := suite.svc.ShortenURL(ctx, "https://example.com")

		suite.NoError(err)
		suite.False(existing)
		suite.NotNil(url)
		suite.Equal("abc12345", url.ShortCode)
	})
}

func (suite *URLServiceTestSuite) TestRecordVisit() {
	ctx := context.Background()

	suite.Run("url not found", func() {
		suite.urlRepoMock.
			On("RecordClick", ctx, "missing1", mock.Anything).
			Once().
			Return(nil, database.ErrURLNotFound)

		url, err := suite.svc.RecordVisit(ctx, "missing1", models.ClickEvent{})

		suite.Error(err)
		suite.ErrorIs(err, database.ErrURLNotFound)
		suite.Nil(url)
	})

	suite.Run("fills a zero timestamp", func() {
		suite.urlRepoMock.
			On("RecordClick", ctx, "abc12345", mock.MatchedBy(func(e models.ClickEvent) bool {
				return !e.Timestamp.IsZero() && e.UserAgent == "agent"
			})).
			Once().
			Return(&models.URL{ShortCode: "abc12345", Clicks: 1}, nil)

		url, err := suite.svc.RecordVisit(ctx, "abc12345", models.ClickEvent{UserAgent: "agent"})

		suite.NoError(err)
		suite.Equal(int64(1), url.Clicks)
	})

	suite.Run("keeps a provided timestamp", func() {
		ts := time.Date(2026, time.August, 20, 10, 0, 0, 0, time.UTC)

		suite.urlRepoMock.
			On("RecordClick", ctx, "abc12345", mock.MatchedBy(func(e models.ClickEvent) bool {
				return e.Timestamp.Equal(ts)
			})).
			Once().
			Return(&models.URL{ShortCode: "abc12345", Clicks: 2}, nil)

		url, err := suite.svc.RecordVisit(ctx, "abc12345", models.ClickEvent{Timestamp: ts})

		suite.NoError(err)
		suite.Equal(int64(2), url.Clicks)
	})
}

func (suite *URLServiceTestSuite) TestGetAnalytics() {
	ctx := context.Background()

	suite.Run("url not found", func() {
		suite.urlRepoMock.
			On("GetByShortCode", ctx, "missing1").
			Once().
			Return(nil, database.ErrURLNotFound)

		url, err := suite.svc.GetAnalytics(ctx, "missing1")

		suite.Error(err)
		suite.ErrorIs(err, database.ErrURLNotFound)
		suite.Nil(url)
	})

	suite.Run("success", func() {
		suite.urlRepoMock.
			On("GetByShortCode", ctx, "abc12345").
			Once().
			Return(&models.URL{ShortCode: "abc12345", Clicks: 3}, nil)

		url, err := suite.svc.GetAnalytics(ctx, "abc12345")

		suite.NoError(err)
		suite.NotNil(url)
		suite.Equal(int64(3), url.Clicks)
	})
}

func (suite *URLServiceTestSuite) TestListURLs() {
	ctx := context.Background()

	suite.Run("clamps non-positive parameters", func() {
		suite.urlRepoMock.
			On("List", ctx, DefaultPage, DefaultPageSize).
			Once().
			Return([]models.URL{}, int64(0), nil)

		_, _, err := suite.svc.ListURLs(ctx, 0, -3)

		suite.NoError(err)
	})

	suite.Run("caps the page size", func() {
		suite.urlRepoMock.
			On("List", ctx, 1, maxPageSize).
			Once().
			Return([]models.URL{}, int64(0), nil)

		_, _, err := suite.svc.ListURLs(ctx, 1, 1000)

		suite.NoError(err)
	})

	suite.Run("repository error", func() {
		suite.urlRepoMock.
			On("List", ctx, 1, 20).
			Once().
			Return(nil, int64(0), suite.errUnknown)

		urls, total, err := suite.svc.ListURLs(ctx, 1, 20)

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(urls)
		suite.Zero(total)
	})

	suite.Run("success", func() {
		want := []models.URL{
			{ShortCode: "code2"},
			{ShortCode: "code1"},
		}

		suite.urlRepoMock.
			On("List", ctx, 1, 20).
			Once().
			Return(want, int64(2), nil)

		urls, total, err := suite.svc.ListURLs(ctx, 1, 20)

		suite.NoError(err)
		suite.Equal(want, urls)
		suite.Equal(int64(2), total)
	})
}

func TestURLServiceTestSuite(t *testing.T) {
	suite.Run(t, new(URLServiceTestSuite))
}

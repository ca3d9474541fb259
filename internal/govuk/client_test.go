package govuk

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bedspace-scheduling-backend/config"
)

const sampleFeed = `{
	"england-and-wales": {
		"division": "england-and-wales",
		"events": [
			{"title": "New Year's Day", "date": "2024-01-01", "notes": "", "bunting": true},
			{"title": "Good Friday", "date": "2024-03-29", "notes": "", "bunting": false}
		]
	},
	"scotland": {
		"division": "scotland",
		"events": [
			{"title": "2nd January", "date": "2024-01-02", "notes": "", "bunting": true}
		]
	}
}`

func testClient(url string) *Client {
	return NewClient(&config.BankHolidaysConfig{
		URL:            url,
		Division:       "england-and-wales",
		TimeoutSeconds: 5,
	})
}

func TestGetBankHolidays(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleFeed))
	}))
	defer server.Close()

	holidays, err := testClient(server.URL).GetBankHolidays(context.Background())
	require.NoError(t, err)
	require.Len(t, holidays, 2)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), holidays[0])
	assert.Equal(t, time.Date(2024, 3, 29, 0, 0, 0, 0, time.UTC), holidays[1])
}

func TestGetBankHolidaysServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := testClient(server.URL).GetBankHolidays(context.Background())
	assert.ErrorContains(t, err, "status 500")
}

func TestGetBankHolidaysMissingDivision(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"scotland": {"division": "scotland", "events": []}}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).GetBankHolidays(context.Background())
	assert.ErrorContains(t, err, "england-and-wales")
}

func TestGetBankHolidaysBadDate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"england-and-wales": {"division": "england-and-wales", "events": [{"title": "x", "date": "01/01/2024"}]}}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).GetBankHolidays(context.Background())
	assert.ErrorContains(t, err, "failed to parse bank holiday date")
}

func TestCachedSourceFetchesOnce(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(sampleFeed))
	}))
	defer server.Close()

	cached := NewCachedSource(testClient(server.URL), time.Minute)

	for i := 0; i < 3; i++ {
		holidays, err := cached.GetBankHolidays(context.Background())
		require.NoError(t, err)
		assert.Len(t, holidays, 2)
	}
	assert.Equal(t, 1, calls)
}

func TestCachedSourceDoesNotCacheFailures(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	cached := NewCachedSource(testClient(server.URL), time.Minute)

	_, err := cached.GetBankHolidays(context.Background())
	assert.Error(t, err)
	_, err = cached.GetBankHolidays(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 2, calls)
}

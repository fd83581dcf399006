package onemotoring

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowkh/coewatch/pkg/config"
	"github.com/lowkh/coewatch/pkg/httputil"
	"github.com/lowkh/coewatch/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{
		Env:       "development",
		LogLevel:  "error",
		LogFormat: "json",
	})
}

func newTestClient(baseURL string) *Client {
	log := testLogger()
	return NewClient(baseURL, httputil.New(log).DisableRetry(), log)
}

const resultsHTML = `
<html><body>
<table class="coe-results" data-month="2026-08" data-bidding-no="2">
  <tr><th>Category</th><th>Quota</th><th>Bids Received</th><th>Successful Bids</th><th>Quota Premium</th></tr>
  <tr><td>Category A</td><td>1,050</td><td>1,700</td><td>1,010</td><td>102,000</td></tr>
  <tr><td>Category B</td><td>500</td><td>820</td><td>490</td><td>110,524</td></tr>
  <tr><td></td><td>0</td><td>0</td><td>0</td><td>0</td></tr>
</table>
</body></html>`

func TestParseResults(t *testing.T) {
	client := newTestClient("http://example.invalid")

	records, err := client.parseResults(resultsHTML)
	require.NoError(t, err)
	require.Len(t, records, 2, "blank-category row is skipped")

	first := records[0]
	assert.Equal(t, "Category A", first.VehicleClass)
	assert.Equal(t, 2026, first.Month.Year())
	assert.Equal(t, time.August, first.Month.Month())
	assert.Equal(t, 2, first.BiddingNo)
	assert.Equal(t, 1050.0, first.Quota)
	assert.Equal(t, 1700.0, first.BidsReceived)
	assert.Equal(t, 1010.0, first.BidsSuccess)
	assert.Equal(t, 102000.0, first.Premium)

	assert.Equal(t, "Category B", records[1].VehicleClass)
	assert.Equal(t, 110524.0, records[1].Premium)
}

func TestParseResults_Errors(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "no table",
			html: `<html><body><p>maintenance</p></body></html>`,
			want: "no results table",
		},
		{
			name: "missing month",
			html: `<table class="coe-results"><tr><td>Category A</td><td>1</td><td>1</td><td>1</td><td>1</td></tr></table>`,
			want: "no parseable month",
		},
		{
			name: "no data rows",
			html: `<table class="coe-results" data-month="2026-08"><tr><th>Category</th></tr></table>`,
			want: "no data rows",
		},
	}

	client := newTestClient("http://example.invalid")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.parseResults(tt.html)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFetchLatestResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, resultsPath, r.URL.Path)
		w.Write([]byte(resultsHTML))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	records, err := client.FetchLatestResults(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestFetchLatestResults_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.FetchLatestResults(context.Background())
	assert.Error(t, err)
}

package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osrs-tools/flip-scanner/internal/config"
	"github.com/osrs-tools/flip-scanner/internal/models"
)

func testClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client := NewClient(config.APIConfig{
		BaseURL:   srv.URL,
		UserAgent: "flip-scanner-test",
		Contact:   "dev@example.com",
		Timeout:   5 * time.Second,
	})
	return client, srv
}

func TestMapping(t *testing.T) {
	var gotUA string
	client, srv := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		assert.Equal(t, "/mapping", r.URL.Path)
		w.Write([]byte(`[
			{"id": 2, "name": "Cannonball", "limit": 11000, "members": true},
			{"id": 4151, "name": "Abyssal whip", "limit": 8, "members": true},
			{"id": 9999, "name": ""}
		]`))
	}))
	defer srv.Close()

	catalog, err := client.Mapping(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "flip-scanner-test (dev@example.com)", gotUA)
	assert.Equal(t, 2, catalog.Len(), "malformed entries are dropped")

	whip := catalog.Lookup(4151)
	require.NotNil(t, whip)
	assert.Equal(t, "Abyssal whip", whip.Name)
	require.NotNil(t, whip.BuyLimit)
	assert.Equal(t, 8, *whip.BuyLimit)
}

func TestLatest(t *testing.T) {
	client, srv := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest", r.URL.Path)
		w.Write([]byte(`{"data": {
			"2": {"high": 180, "highTime": 1700000000, "low": 175, "lowTime": 1700000030},
			"4151": {"high": 1500000, "highTime": 1700000100, "low": null, "lowTime": 0}
		}}`))
	}))
	defer srv.Close()

	table, err := client.Latest(context.Background())
	require.NoError(t, err)
	require.Len(t, table, 2)

	cb := table[2]
	require.NotNil(t, cb.InstaBuyPrice)
	assert.Equal(t, 180, *cb.InstaBuyPrice)
	assert.True(t, cb.Complete())

	whip := table[4151]
	assert.Nil(t, whip.InstaSellPrice)
	assert.False(t, whip.Complete())
}

func TestAverages(t *testing.T) {
	client, srv := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/5m", r.URL.Path)
		w.Write([]byte(`{"data": {
			"2": {"avgHighPrice": 182, "highPriceVolume": 4000, "avgLowPrice": 176, "lowPriceVolume": 3500}
		}}`))
	}))
	defer srv.Close()

	table, err := client.Averages(context.Background(), "5m")
	require.NoError(t, err)

	agg := table[2]
	assert.True(t, agg.Usable())
	assert.Equal(t, 4000, agg.InstaBuyVol)

	_, err = client.Averages(context.Background(), "2h")
	assert.Error(t, err, "only 5m and 1h are aggregate endpoints")
}

func TestSeries(t *testing.T) {
	client, srv := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/timeseries", r.URL.Path)
		assert.Equal(t, "5m", r.URL.Query().Get("timestep"))
		assert.Equal(t, "2", r.URL.Query().Get("id"))
		w.Write([]byte(`{"data": [
			{"timestamp": 1700000000, "avgHighPrice": 180, "avgLowPrice": 175, "highPriceVolume": 10, "lowPriceVolume": 8},
			{"timestamp": 1700000300, "avgHighPrice": null, "avgLowPrice": 174, "highPriceVolume": 0, "lowPriceVolume": 5}
		]}`))
	}))
	defer srv.Close()

	points, err := client.Series(context.Background(), 2, models.Timestep5m)
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Nil(t, points[1].AvgHighPrice)
	assert.Equal(t, 5, points[1].LowPriceVolume)

	_, err = client.Series(context.Background(), 2, models.Timestep("15m"))
	assert.ErrorIs(t, err, models.ErrInvalidTimestep)
}

func TestGetJSONErrorStatus(t *testing.T) {
	client, srv := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := client.Latest(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestSnapshot(t *testing.T) {
	client, srv := testClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/mapping":
			w.Write([]byte(`[{"id": 2, "name": "Cannonball", "limit": 11000}]`))
		case "/latest":
			w.Write([]byte(`{"data": {"2": {"high": 180, "highTime": 1, "low": 175, "lowTime": 2}}}`))
		case "/5m", "/1h":
			w.Write([]byte(`{"data": {"2": {"avgHighPrice": 182, "highPriceVolume": 40, "avgLowPrice": 176, "lowPriceVolume": 35}}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	data, err := client.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, data.Catalog.Len())
	assert.Len(t, data.Latest, 1)
	assert.Len(t, data.Avg5m, 1)
	assert.Len(t, data.Avg1h, 1)
	assert.False(t, data.Now.IsZero())
}

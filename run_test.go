package weathervault

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/daehan-lim/weathervault/config"
	"github.com/daehan-lim/weathervault/storage"
)

const sampleBody = `<response>
  <header><resultCode>00</resultCode><resultMsg>NORMAL_SERVICE</resultMsg></header>
  <body>
    <dataType>XML</dataType>
    <items>
      <item><category>PTY</category><fcstValue>0</fcstValue></item>
      <item><category>REH</category><fcstValue>55</fcstValue></item>
      <item><category>SKY</category><fcstValue>1</fcstValue></item>
      <item><category>TMN</category><fcstValue>10</fcstValue></item>
      <item><category>TMX</category><fcstValue>20</fcstValue></item>
      <item><category>VEC</category><fcstValue>270</fcstValue></item>
      <item><category>WSD</category><fcstValue>3</fcstValue></item>
      <item><category>FOO</category><fcstValue>99</fcstValue></item>
    </items>
    <pageNo>1</pageNo><numOfRows>1000</numOfRows><totalCount>8</totalCount>
  </body>
</response>`

var jan1 = time.Date(2024, 1, 1, 2, 0, 0, 0, time.UTC)

func testConfig(url string) *config.Config {
	return &config.Config{
		OpenAPIURL:      url,
		ServiceKey:      "test-key",
		GridX:           55,
		GridY:           127,
		BaseTime:        "0200",
		PageNo:          1,
		NumRows:         1000,
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		Region:          "us-east-1",
		Bucket:          "test",
		BaseKey:         "weather",
		MaxRetries:      2,
		RetryInterval:   time.Millisecond,
	}
}

func forecastServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleBody))
	}))
	t.Cleanup(srv.Close)
	return srv
}

type failingStore struct {
	storage.System
}

func (f failingStore) Write(ctx context.Context, key string, data []byte) error {
	return errors.New("put rejected")
}

func TestRunHappyPath(t *testing.T) {
	srv := forecastServer(t)
	store := storage.NewMemoryStorage()

	app := NewApp(testConfig(srv.URL), store, nil, nil)
	app.Now = func() time.Time { return jan1 }

	result := app.Run(context.Background())
	require.Equal(t, Result{StatusCode: 200, Body: "Upload Success"}, result)

	keys, err := store.GetKeysWithPrefix(context.Background(), "weather")
	require.NoError(t, err)
	require.Len(t, keys, 1)
	require.Regexp(t, regexp.MustCompile(`^weather_\d{8}_1$`), keys[0])

	payload, err := store.Read(context.Background(), keys[0])
	require.NoError(t, err)

	var snap map[string]string
	require.NoError(t, json.Unmarshal(payload, &snap))
	require.Equal(t, map[string]string{
		"pty": "0",
		"reh": "55",
		"sky": "1",
		"tmn": "10",
		"tmx": "20",
		"vec": "270",
		"wsd": "3",
	}, snap)
}

func TestRunTwiceSameDayIncrementsSuffix(t *testing.T) {
	srv := forecastServer(t)
	store := storage.NewMemoryStorage()

	app := NewApp(testConfig(srv.URL), store, nil, nil)
	app.Now = func() time.Time { return jan1 }

	require.Equal(t, 200, app.Run(context.Background()).StatusCode)
	require.Equal(t, 200, app.Run(context.Background()).StatusCode)

	keys, err := store.GetKeysWithPrefix(context.Background(), "weather")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"weather_20240101_1", "weather_20240101_2"}, keys)
}

func TestRunHonorsKeyPrefix(t *testing.T) {
	srv := forecastServer(t)
	store := storage.NewMemoryStorage()

	cfg := testConfig(srv.URL)
	cfg.Prefix = "archive/"

	app := NewApp(cfg, store, nil, nil)
	app.Now = func() time.Time { return jan1 }

	require.Equal(t, 200, app.Run(context.Background()).StatusCode)

	keys, err := store.GetKeysWithPrefix(context.Background(), "archive/weather")
	require.NoError(t, err)
	require.Equal(t, []string{"archive/weather_20240101_1"}, keys)
}

func TestRunUploadFailure(t *testing.T) {
	srv := forecastServer(t)
	store := failingStore{System: storage.NewMemoryStorage()}

	app := NewApp(testConfig(srv.URL), store, nil, nil)
	app.Now = func() time.Time { return jan1 }

	result := app.Run(context.Background())
	require.Equal(t, Result{StatusCode: 400, Body: "Upload Fail"}, result)
}

func TestRunFetchExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	app := NewApp(testConfig(srv.URL), storage.NewMemoryStorage(), nil, nil)

	result := app.Run(context.Background())
	require.Equal(t, Result{StatusCode: 400, Body: "Fetch Fail"}, result)
}

func TestRunMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<response><body><items></items></body></response>`))
	}))
	defer srv.Close()

	app := NewApp(testConfig(srv.URL), storage.NewMemoryStorage(), nil, nil)

	result := app.Run(context.Background())
	require.Equal(t, Result{StatusCode: 400, Body: "Malformed Response"}, result)
}

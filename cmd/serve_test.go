package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsphweid/kalimbatab/db"
	"github.com/jsphweid/kalimbatab/model"
	"github.com/jsphweid/kalimbatab/phrase"
)

type memoryStore struct {
	items map[string]model.Conversion
	err   error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{items: make(map[string]model.Conversion)}
}

func (m *memoryStore) Put(_ context.Context, c model.Conversion) error {
	if m.err != nil {
		return m.err
	}
	m.items[c.ID] = c
	return nil
}

func (m *memoryStore) Get(_ context.Context, id string) (model.Conversion, error) {
	if m.err != nil {
		return model.Conversion{}, m.err
	}
	c, ok := m.items[id]
	if !ok {
		return model.Conversion{}, db.ErrNotFound
	}
	return c, nil
}

func convertBody(t *testing.T, lines ...string) *strings.Reader {
	t.Helper()
	data, err := json.Marshal(model.ConvertRequestBody{Text: strings.Join(lines, "\n")})
	require.NoError(t, err)
	return strings.NewReader(string(data))
}

func doRequest(h http.Handler, method, target string, body *strings.Reader) *httptest.ResponseRecorder {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	h := NewRouter(nil, phrase.DefaultOptions(), []string{"*"})
	w := doRequest(h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestConvertWithoutStore(t *testing.T) {
	h := NewRouter(nil, phrase.DefaultOptions(), []string{"*"})
	w := doRequest(h, http.MethodPost, "/convert", convertBody(t, joinBlocks(openChordBlock, melodyBlock)...))

	require.Equal(t, http.StatusOK, w.Code)
	var res model.ConvertResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))

	assert := assert.New(t)
	assert.Empty(res.ID)
	assert.Equal([]string{"(113573.)", "3. 0"}, res.Lines)
}

func TestConvertEmptyText(t *testing.T) {
	h := NewRouter(nil, phrase.DefaultOptions(), []string{"*"})
	w := doRequest(h, http.MethodPost, "/convert", convertBody(t, "no tab here"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"lines":[]}`, w.Body.String())
}

func TestConvertStoresAndFetches(t *testing.T) {
	store := newMemoryStore()
	h := NewRouter(store, phrase.DefaultOptions(), []string{"*"})

	w := doRequest(h, http.MethodPost, "/convert", convertBody(t, openChordBlock...))
	require.Equal(t, http.StatusOK, w.Code)
	var res model.ConvertResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.NotEmpty(t, res.ID)
	require.Contains(t, store.items, res.ID)

	w = doRequest(h, http.MethodGet, "/convert/"+res.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got model.Conversion
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))

	assert := assert.New(t)
	assert.Equal(res.ID, got.ID)
	assert.Equal([]string{"(113573.)"}, got.Lines)
	assert.Equal(strings.Join(openChordBlock, "\n"), got.Source)
	assert.WithinDuration(time.Now(), got.CreatedAt, time.Minute)
}

func TestConvertErrors(t *testing.T) {
	h := NewRouter(nil, phrase.DefaultOptions(), []string{"*"})

	w := doRequest(h, http.MethodPost, "/convert", strings.NewReader("{not json"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(h, http.MethodPost, "/convert", convertBody(t, openChordBlock[:5]...))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var res model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Contains(t, res.Error, "multiple of six")
}

func TestConvertStoreFailure(t *testing.T) {
	store := newMemoryStore()
	store.err = errors.New("table missing")
	h := NewRouter(store, phrase.DefaultOptions(), []string{"*"})

	w := doRequest(h, http.MethodPost, "/convert", convertBody(t, openChordBlock...))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetConversion(t *testing.T) {
	h := NewRouter(newMemoryStore(), phrase.DefaultOptions(), []string{"*"})
	w := doRequest(h, http.MethodGet, "/convert/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	h = NewRouter(nil, phrase.DefaultOptions(), []string{"*"})
	w = doRequest(h, http.MethodGet, "/convert/anything", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCORSAllowedOrigin(t *testing.T) {
	h := NewRouter(nil, phrase.DefaultOptions(), []string{"http://example.com"})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "http://example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

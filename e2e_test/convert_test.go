//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsphweid/kalimbatab/cmd"
	"github.com/jsphweid/kalimbatab/constants"
	"github.com/jsphweid/kalimbatab/db"
	"github.com/jsphweid/kalimbatab/model"
	"github.com/jsphweid/kalimbatab/phrase"
)

const song = `Intro
e|-0--|-------------0--|
B|-0--|---------1------|
G|-0--|-----0----------|
D|-2--|-2--------------|
A|-2--|----------------|
E|-0--|----------------|

Verse
e|-3-------0--|
B|-3----------|
G|-0----------|
D|-0----------|
A|-2----------|
E|-3----------|
`

var server *httptest.Server

func TestMain(m *testing.M) {
	constants.SetDefaults()

	// KALIMBATAB_DYNAMO_ENDPOINT points the run at a local DynamoDB
	var store cmd.ConversionStore
	if endpoint := os.Getenv("KALIMBATAB_DYNAMO_ENDPOINT"); endpoint != "" {
		s, err := db.NewStore(endpoint, constants.GetDynamoRegion(), constants.GetDynamoTable())
		if err != nil {
			panic(err.Error())
		}
		store = s
	}
	server = httptest.NewServer(cmd.NewRouter(store, phrase.DefaultOptions(), []string{"*"}))

	exitVal := m.Run()

	server.Close()
	os.Exit(exitVal)
}

func postConvert(t *testing.T, text string) *http.Response {
	data, err := json.Marshal(model.ConvertRequestBody{Text: text})
	require.NoError(t, err)
	resp, err := http.Post(server.URL+"/convert", "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func TestConvertSongE2E(t *testing.T) {
	resp := postConvert(t, song)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res model.ConvertResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))

	assert := assert.New(t)
	assert.Equal([]string{"(113573.) 3 5 1. 3.", "(11255.5.) 0 3."}, res.Lines)

	if res.ID == "" {
		t.Log("no DynamoDB endpoint configured, skipping fetch")
		return
	}
	got, err := http.Get(server.URL + "/convert/" + res.ID)
	require.NoError(t, err)
	defer got.Body.Close()
	assert.Equal(http.StatusOK, got.StatusCode)

	var stored model.Conversion
	require.NoError(t, json.NewDecoder(got.Body).Decode(&stored))
	assert.Equal(res.Lines, stored.Lines)
	assert.Equal(song, stored.Source)
}

func TestConvertBrokenSongE2E(t *testing.T) {
	broken := strings.Replace(song, "B|-3----------|", "", 1)
	resp := postConvert(t, broken)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(body), "multiple of six")
}

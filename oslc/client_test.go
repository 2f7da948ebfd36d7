// ABOUTME: Tests for the OSLC transport against a stub Maximo server
// ABOUTME: Covers pagination, query parameter encoding, whoami, and HTTP error surfacing
package oslc

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(serverURL string) *Client {
	return NewClient(ClientConfig{
		BaseURL:           serverURL,
		APIKey:            "test-key",
		RequestsPerSecond: 1000,
	}, zap.NewNop())
}

func TestForEachPagePaginates(t *testing.T) {
	var seenParams []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/oslc/os/mxapiasset", r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get("apikey"))
		seenParams = append(seenParams, r.URL.Query().Get("pageno"))

		switch r.URL.Query().Get("pageno") {
		case "1":
			fmt.Fprint(w, `{
				"member": [
					{"spi:assetnum": "A1"},
					{"spi:assetnum": "A2"}
				],
				"responseInfo": {"nextPage": {"href": "http://x/page2"}}
			}`)
		case "2":
			fmt.Fprint(w, `{"member": [{"spi:assetnum": "A3"}], "responseInfo": {}}`)
		default:
			fmt.Fprint(w, `{"member": []}`)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	var assets []string
	total, err := client.ForEachPage(context.Background(), PageRequest{
		Resource: "mxapiasset",
		PageSize: 2,
	}, func(records []Record) error {
		for _, rec := range records {
			assets = append(assets, rec.String("assetnum"))
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"A1", "A2", "A3"}, assets)
	assert.Equal(t, []string{"1", "2"}, seenParams)
}

func TestForEachPageSendsQueryParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, `status="ACTIVE"`, q.Get("oslc.where"))
		assert.Equal(t, "itemnum,invbalances{*}", q.Get("oslc.select"))
		assert.Equal(t, "100", q.Get("oslc.pageSize"))
		assert.Equal(t, "1", q.Get("lean"))
		fmt.Fprint(w, `{"member": []}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	total, err := client.ForEachPage(context.Background(), PageRequest{
		Resource: "mxapiinventory",
		Select:   "itemnum,invbalances{*}",
		Where:    `status="ACTIVE"`,
		PageSize: 100,
	}, func([]Record) error { return nil })

	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestForEachPageRdfsMember(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"rdfs:member": [{"spi:location": "L1"}]}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	total, err := client.ForEachPage(context.Background(), PageRequest{
		Resource: "mxapioperloc",
		PageSize: 10,
	}, func(records []Record) error {
		require.Len(t, records, 1)
		assert.Equal(t, "L1", records[0].String("location"))
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestForEachPageHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.ForEachPage(context.Background(), PageRequest{
		Resource: "mxapiasset",
		PageSize: 10,
	}, func([]Record) error { return nil })

	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 500")
}

func TestWhoami(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/oslc/whoami", r.URL.Path)
		fmt.Fprint(w, `{
			"spi:loginID": "maxadmin",
			"spi:personId": "MAXADMIN",
			"spi:displayName": "Max Admin",
			"spi:defaultSite": "BEDFORD",
			"spi:insertSite": "BEDFORD"
		}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	profile, err := client.Whoami(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "maxadmin", profile.LoginID)
	assert.Equal(t, "BEDFORD", profile.DefaultSite)
}

func TestWhoamiEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Whoami(context.Background())
	require.Error(t, err)
}

func TestTruncateTrimsToRuneBoundary(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))

	// A cut landing inside a multi-byte character must back up to the
	// boundary instead of emitting a mangled tail.
	got := truncate("aé", 2)
	assert.Equal(t, "a...", got)
	assert.True(t, utf8.ValidString(got))

	long := strings.Repeat("é", 120)
	got = truncate(long, 201)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("é", 100)+"...", got)
}

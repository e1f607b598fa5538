package bookmark

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientFetchAllPaginates(t *testing.T) {
	var pages []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pages = append(pages, page)

		w.Header().Set("Content-Type", "application/json")
		switch page {
		case "0":
			fmt.Fprint(w, `{"bookmarks":[{"id":"1","title":"One","url":"https://a.com","notes":"- [ ] read"}]}`)
		case "1":
			fmt.Fprint(w, `{"bookmarks":[{"id":"2","title":"Two","url":"https://b.com","notes":{"content":"body"}}]}`)
		default:
			fmt.Fprint(w, `{"bookmarks":[]}`)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/bookmarks", zerolog.Nop())
	got, err := c.FetchAll(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, PlainNotes("- [ ] read"), got[0].Notes)
	assert.Equal(t, StructuredNotes{Body: "body"}, got[1].Notes)
	assert.Equal(t, []string{"0", "1", "2"}, pages)
}

func TestClientFetchAllStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zerolog.Nop())
	_, err := c.FetchAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

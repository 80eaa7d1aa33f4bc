package zendesk

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpsync-labs/helpsync-cli/internal/core/domain"
)

func testConfig(baseURL string) Config {
	return Config{
		BaseURL:    baseURL,
		PerPage:    2,
		MaxRetries: 1,
		RetryDelay: time.Millisecond,
		Timeout:    time.Second,
	}
}

// collect drains a FullSync run and returns articles plus the fatal
// error, if any.
func collect(t *testing.T, c *Connector) ([]domain.RawArticle, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	articlesCh, errsCh := c.FullSync(ctx)

	var articles []domain.RawArticle
	var fatal error
	for articlesCh != nil || errsCh != nil {
		select {
		case a, ok := <-articlesCh:
			if !ok {
				articlesCh = nil
				continue
			}
			articles = append(articles, a)
		case err, ok := <-errsCh:
			if !ok {
				errsCh = nil
				continue
			}
			fatal = err
		}
	}
	return articles, fatal
}

func TestConnector_FullSync_Paginates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		switch page {
		case "1":
			next := "has-more"
			fmt.Fprintf(w, `{"articles":[
				{"id":1,"title":"One","body":"<p>one</p>","html_url":"https://h/1"},
				{"id":2,"title":"Two","body":"<p>two</p>","html_url":"https://h/2"}
			],"next_page":%q,"page":1}`, next)
		case "2":
			fmt.Fprint(w, `{"articles":[
				{"id":3,"title":"Three","body":"<p>three</p>","html_url":"https://h/3"}
			],"next_page":null,"page":2}`)
		default:
			t.Errorf("unexpected page %q", page)
		}
	}))
	defer srv.Close()

	c, err := New(testConfig(srv.URL))
	require.NoError(t, err)
	defer c.Close()

	articles, fatal := collect(t, c)
	require.NoError(t, fatal)
	require.Len(t, articles, 3)
	assert.Equal(t, int64(1), articles[0].ID)
	assert.Equal(t, "<p>three</p>", articles[2].BodyHTML)
}

func TestConnector_FullSync_SkipsMalformedRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"articles":[
			{"id":1,"title":"OK","body":"<p>ok</p>","html_url":"https://h/1"},
			{"id":0,"title":"no id","body":"<p>x</p>"},
			{"id":2,"title":"empty body","body":""},
			{"id":3,"title":"draft","body":"<p>d</p>","draft":true}
		],"next_page":null}`)
	}))
	defer srv.Close()

	c, err := New(testConfig(srv.URL))
	require.NoError(t, err)
	defer c.Close()

	articles, fatal := collect(t, c)
	require.NoError(t, fatal)
	require.Len(t, articles, 1)
	assert.Equal(t, int64(1), articles[0].ID)
}

func TestConnector_FullSync_Limit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"articles":[
			{"id":1,"title":"One","body":"<p>1</p>"},
			{"id":2,"title":"Two","body":"<p>2</p>"}
		],"next_page":null}`)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Limit = 1
	c, err := New(cfg)
	require.NoError(t, err)
	defer c.Close()

	articles, fatal := collect(t, c)
	require.NoError(t, fatal)
	assert.Len(t, articles, 1)
}

func TestConnector_FullSync_FatalAfterRetries(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := New(testConfig(srv.URL))
	require.NoError(t, err)
	defer c.Close()

	articles, fatal := collect(t, c)
	assert.Empty(t, articles)
	require.Error(t, fatal)
	// initial attempt + 1 retry
	assert.Equal(t, 2, calls)
}

func TestConnector_FullSync_RetriesTransientThenSucceeds(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"articles":[{"id":1,"title":"One","body":"<p>1</p>"}],"next_page":null}`)
	}))
	defer srv.Close()

	c, err := New(testConfig(srv.URL))
	require.NoError(t, err)
	defer c.Close()

	articles, fatal := collect(t, c)
	require.NoError(t, fatal)
	assert.Len(t, articles, 1)
	assert.Equal(t, 2, calls)
}

func TestConnector_Validate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"articles":[],"next_page":null}`)
	}))
	defer srv.Close()

	c, err := New(testConfig(srv.URL))
	require.NoError(t, err)
	defer c.Close()

	assert.NoError(t, c.Validate(context.Background()))
}

func TestConnector_Validate_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, err := New(testConfig(srv.URL))
	require.NoError(t, err)
	defer c.Close()

	err = c.Validate(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrConfigMissingBaseURL)
}

package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetchExtractsBoundedExcerpt(t *testing.T) {
	page := `<!DOCTYPE html>
<html>
<head><title>Acme Cheese</title><style>body { color: red; }</style></head>
<body>
  <nav><a href="/">Home</a><a href="/shop">Shop</a></nav>
  <script>trackVisitor();</script>
  <h1>Acme Cheese Wholesale</h1>
  <p>` + strings.Repeat("We supply artisanal cheese to restaurants across the UK. ", 200) + `</p>
  <footer>Copyright Acme</footer>
</body>
</html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(page))
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, 500)
	result, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if result.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", result.StatusCode)
	}
	if len([]rune(result.Excerpt)) > 500 {
		t.Fatalf("excerpt exceeds budget: %d chars", len([]rune(result.Excerpt)))
	}
	if !strings.Contains(result.Excerpt, "artisanal cheese") {
		t.Fatalf("excerpt missing page text: %q", result.Excerpt)
	}
	if strings.Contains(result.Excerpt, "trackVisitor") || strings.Contains(result.Excerpt, "color: red") {
		t.Fatalf("boilerplate leaked into excerpt: %q", result.Excerpt)
	}
}

func TestFetchHTTPStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, 4000)
	_, err := f.Fetch(context.Background(), srv.URL)

	var fetchErr *Error
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if fetchErr.Reason != ReasonStatus || fetchErr.StatusCode != http.StatusNotFound {
		t.Fatalf("unexpected classification: %+v", fetchErr)
	}
	if !strings.Contains(fetchErr.Error(), "404") {
		t.Fatalf("message should name the status: %s", fetchErr.Error())
	}
}

func TestFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer srv.Close()

	f := NewFetcher(100*time.Millisecond, 4000)
	_, err := f.Fetch(context.Background(), srv.URL)

	var fetchErr *Error
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if fetchErr.Reason != ReasonTimeout {
		t.Fatalf("expected timeout, got %s: %v", fetchErr.Reason, fetchErr.Err)
	}
}

func TestFetchConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	f := NewFetcher(2*time.Second, 4000)
	_, err := f.Fetch(context.Background(), addr)

	var fetchErr *Error
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if fetchErr.Reason != ReasonConnection {
		t.Fatalf("expected connection failure, got %s", fetchErr.Reason)
	}
}

func TestFetchTLSFailure(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>secure</body></html>"))
	}))
	defer srv.Close()

	// The default client does not trust the test server's certificate.
	f := NewFetcher(5*time.Second, 4000)
	_, err := f.Fetch(context.Background(), srv.URL)

	var fetchErr *Error
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if fetchErr.Reason != ReasonTLS {
		t.Fatalf("expected tls failure, got %s: %v", fetchErr.Reason, fetchErr.Err)
	}
}

func TestFetchRejectsBadScheme(t *testing.T) {
	f := NewFetcher(time.Second, 4000)
	for _, raw := range []string{"ftp://example.com", "file:///etc/passwd", "not a url at all"} {
		if _, err := f.Fetch(context.Background(), raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestExtractExcerptFallback(t *testing.T) {
	// Not a parseable document, still must not panic and must strip scripts.
	raw := []byte(`plain text <script>alert(1)</script> more text`)
	excerpt := ExtractExcerpt(raw, 4000)
	if strings.Contains(excerpt, "alert(1)") {
		t.Fatalf("script content leaked: %q", excerpt)
	}
	if !strings.Contains(excerpt, "plain text") {
		t.Fatalf("text lost: %q", excerpt)
	}
}

func TestExtractExcerptHardCutoff(t *testing.T) {
	page := []byte("<html><body><p>" + strings.Repeat("word ", 1000) + "</p></body></html>")
	excerpt := ExtractExcerpt(page, 103)
	if got := len([]rune(excerpt)); got != 103 {
		t.Fatalf("expected hard cutoff at 103 chars, got %d", got)
	}
}

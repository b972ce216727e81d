package workflowy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/matzehuels/brainlift/pkg/errors"
)

// newShareServer serves a minimal share page plus a tree endpoint.
func newShareServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/s/", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: "sess-1"})
		w.Write([]byte(`<html><script>
			var PROJECT_TREE_DATA_URL_PARAMS = {"share_id": "Abc123"};
		</script></html>`))
	})
	mux.HandleFunc("/get_tree_data/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("share_id") != "Abc123" {
			http.Error(w, "unknown share", http.StatusNotFound)
			return
		}
		if r.Header.Get("Cookie") != "sessionid=sess-1" {
			http.Error(w, "no session", http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items": [
			{"id": "root", "nm": "My <b>BrainLift</b>"},
			{"id": "dok3", "nm": "DOK3 - Insights", "prnt": "root", "pr": 0},
			{"id": "i1", "nm": "An insight", "prnt": "dok3", "pr": 0},
			{"id": "c1", "nm": "a comment", "prnt": "i1", "metadata": {"layoutMode": "cmnt"}}
		]}`))
	})
	return httptest.NewServer(mux)
}

func TestClientScrape(t *testing.T) {
	srv := newShareServer(t)
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	outline, err := c.Scrape(context.Background(), srv.URL+"/s/my-notes/Abc123")
	if err != nil {
		t.Fatalf("Scrape() error: %v", err)
	}

	if outline.Name != "My BrainLift" {
		t.Errorf("Name = %q, want HTML-cleaned root name", outline.Name)
	}
	if outline.ShareID != "Abc123" {
		t.Errorf("ShareID = %q, want Abc123", outline.ShareID)
	}

	// Comment node filtered out
	if len(outline.Nodes) != 3 {
		t.Errorf("Nodes = %d, want 3 (comment excluded)", len(outline.Nodes))
	}
	for _, n := range outline.Nodes {
		if n.ID == "c1" {
			t.Error("comment node should be filtered out")
		}
	}

	sections := ExtractSections(outline.Nodes)
	if sections.Insights.ItemCount() != 1 {
		t.Errorf("Insights items = %d, want 1", sections.Insights.ItemCount())
	}
}

func TestResolveShareMissingCookie(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`PROJECT_TREE_DATA_URL_PARAMS = {"share_id": "Abc123"};`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	_, err := c.ResolveShare(context.Background(), srv.URL+"/s/x/Abc123")
	if !apperrors.Is(err, apperrors.ErrCodeInvalidOutline) {
		t.Errorf("got %v, want INVALID_OUTLINE", err)
	}
}

func TestResolveShareMissingShareID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: "sess-1"})
		w.Write([]byte(`<html>nothing here</html>`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	_, err := c.ResolveShare(context.Background(), srv.URL+"/s/x/Abc123")
	if !apperrors.Is(err, apperrors.ErrCodeInvalidOutline) {
		t.Errorf("got %v, want INVALID_OUTLINE", err)
	}
}

func TestResolveShareRejectsBadURL(t *testing.T) {
	c := NewClient()
	_, err := c.ResolveShare(context.Background(), "ftp://example.com/outline")
	if !apperrors.Is(err, apperrors.ErrCodeInvalidURL) {
		t.Errorf("got %v, want INVALID_URL", err)
	}
}

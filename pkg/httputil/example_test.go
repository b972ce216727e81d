package httputil_test

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/brainlift/pkg/httputil"
)

func ExampleCache() {
	// Create a cache with 24-hour TTL in a temp directory
	dir := filepath.Join(os.TempDir(), "brainlift-example")
	cache, err := httputil.NewCache(dir, 24*time.Hour)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	// Store a value
	data := map[string]string{"name": "Spaced Repetition", "share_id": "Abc123"}
	if err := cache.Set("workflowy:Abc123", data); err != nil {
		fmt.Println("Error:", err)
		return
	}

	// Retrieve the value
	var result map[string]string
	if ok, err := cache.Get("workflowy:Abc123", &result); ok && err == nil {
		fmt.Println("Name:", result["name"])
		fmt.Println("Share:", result["share_id"])
	}

	// Clean up
	os.RemoveAll(dir)
	// Output:
	// Name: Spaced Repetition
	// Share: Abc123
}

func ExampleCache_miss() {
	dir := filepath.Join(os.TempDir(), "brainlift-example-miss")
	cache, _ := httputil.NewCache(dir, time.Hour)
	defer os.RemoveAll(dir)

	// Try to get a non-existent key
	var result string
	ok, err := cache.Get("nonexistent", &result)
	fmt.Println("Found:", ok)
	fmt.Println("Error:", err)
	// Output:
	// Found: false
	// Error: <nil>
}

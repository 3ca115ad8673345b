package storage

import "testing"

func TestPublicIDFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "bare key", url: "https://media.example.com/bucket/0b6f8f3e-1a2b-4c3d-8e9f-0001", want: "0b6f8f3e-1a2b-4c3d-8e9f-0001"},
		{name: "key with extension", url: "https://media.example.com/bucket/thumb.png", want: "thumb"},
		{name: "nested path", url: "https://cdn.example.com/a/b/c/video.mp4", want: "video"},
		{name: "no path", url: "asset.webm", want: "asset"},
		{name: "empty", url: "", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := PublicIDFromURL(tc.url); got != tc.want {
				t.Fatalf("PublicIDFromURL(%q) = %q, want %q", tc.url, got, tc.want)
			}
		})
	}
}

package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePublicURL(t *testing.T) {
	tests := []struct {
		name   string
		ref    string
		bucket string
		key    string
		ok     bool
	}{
		{
			name:   "well formed",
			ref:    "https://cdn.example.com/storage/v1/object/public/recordings/interviews/s1/q1/1700000000.webm",
			bucket: "recordings",
			key:    "interviews/s1/q1/1700000000.webm",
			ok:     true,
		},
		{
			name:   "key with single segment",
			ref:    "https://cdn.example.com/storage/v1/object/public/recordings/clip.webm",
			bucket: "recordings",
			key:    "clip.webm",
			ok:     true,
		},
		{name: "empty string", ref: "", ok: false},
		{name: "no marker", ref: "https://cdn.example.com/recordings/clip.webm", ok: false},
		{name: "marker but no key", ref: "https://cdn.example.com/object/public/recordings", ok: false},
		{name: "marker but empty bucket", ref: "https://cdn.example.com/object/public//clip.webm", ok: false},
		{name: "garbage", ref: "not a url at all", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, key, ok := ParsePublicURL(tt.ref)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestParsePublicURLRoundTrip(t *testing.T) {
	s := &Store{bucket: "recordings", baseURL: "https://cdn.example.com"}
	ref := s.PublicURL("recordings", "interviews/s1/q1/42.webm")
	bucket, key, ok := ParsePublicURL(ref)
	assert.True(t, ok)
	assert.Equal(t, "recordings", bucket)
	assert.Equal(t, "interviews/s1/q1/42.webm", key)
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("s1", "q1", ".mp4")
	assert.True(t, strings.HasPrefix(key, "interviews/s1/q1/"))
	assert.True(t, strings.HasSuffix(key, ".mp4"))

	// repeated attempts must not collide
	other := ObjectKey("s1", "q1", ".mp4")
	assert.NotEqual(t, key, other)

	assert.True(t, strings.HasSuffix(ObjectKey("s1", "q1", ""), ".webm"))
}

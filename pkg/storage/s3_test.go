package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateImageType(t *testing.T) {
	tests := []struct {
		contentType string
		filename    string
		want        bool
	}{
		{"image/png", "cow.png", true},
		{"IMAGE/JPEG", "", true},
		{"", "maize.webp", true},
		{"video/mp4", "clip.png", false},
		{"", "notes.pdf", false},
		{"", "", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidateImageType(tt.contentType, tt.filename), "%q %q", tt.contentType, tt.filename)
	}
}

func TestMediaKey(t *testing.T) {
	key := MediaKey(FolderIcons, "goat.JPEG", "")
	assert.True(t, strings.HasPrefix(key, "icons/"))
	assert.True(t, strings.HasSuffix(key, ".jpeg"))

	key = MediaKey(FolderAuthors, "photo", "image/png")
	assert.True(t, strings.HasPrefix(key, "authors/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.NotEqual(t, key, MediaKey(FolderAuthors, "photo", "image/png"))
}

func TestKeyFromURLRoundTrip(t *testing.T) {
	u := PublicURL("farm-media", "eu-west-1", "icons/abc.png")
	key, ok := KeyFromURL("farm-media", "eu-west-1", u)
	assert.True(t, ok)
	assert.Equal(t, "icons/abc.png", key)

	for _, raw := range []string{
		"",
		"🐄",
		"http://farm-media.s3.eu-west-1.amazonaws.com/icons/abc.png",
		"https://other.s3.eu-west-1.amazonaws.com/icons/abc.png",
		"https://farm-media.s3.eu-west-1.amazonaws.com/",
		"https://cdn.example.com/icons/abc.png",
	} {
		_, ok := KeyFromURL("farm-media", "eu-west-1", raw)
		assert.False(t, ok, raw)
	}
}

func TestValidFolder(t *testing.T) {
	assert.True(t, ValidFolder(FolderIcons))
	assert.True(t, ValidFolder(FolderAuthors))
	assert.False(t, ValidFolder("recordings"))
}

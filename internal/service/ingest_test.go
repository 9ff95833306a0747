package service

import (
	"path/filepath"
	"testing"

	"github.com/PranavGopinath/spectra/internal/domain"
)

func TestDeterministicItemID(t *testing.T) {
	testCases := []struct {
		name      string
		mediaType domain.MediaType
		title     string
	}{
		{name: "movie", mediaType: domain.MediaTypeMovie, title: "Blade Runner"},
		{name: "book", mediaType: domain.MediaTypeBook, title: "Blade Runner"},
		{name: "music", mediaType: domain.MediaTypeMusic, title: "Kind of Blue"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id1 := DeterministicItemID(tc.mediaType, tc.title)
			id2 := DeterministicItemID(tc.mediaType, tc.title)
			if id1 != id2 {
				t.Errorf("ID mismatch: first=%s, second=%s", id1, id2)
			}
			if len(id1) != 36 {
				t.Errorf("Invalid UUID length: got %d, want 36", len(id1))
			}
		})
	}
}

func TestDeterministicItemIDUniqueness(t *testing.T) {
	movie := DeterministicItemID(domain.MediaTypeMovie, "Blade Runner")
	book := DeterministicItemID(domain.MediaTypeBook, "Blade Runner")
	other := DeterministicItemID(domain.MediaTypeMovie, "Alien")

	if movie == book {
		t.Errorf("same title across media types should produce different IDs: %s == %s", movie, book)
	}
	if movie == other {
		t.Errorf("different titles should produce different IDs: %s == %s", movie, other)
	}
}

func TestDeterministicItemIDNormalizesTitle(t *testing.T) {
	a := DeterministicItemID(domain.MediaTypeMovie, "Blade Runner")
	b := DeterministicItemID(domain.MediaTypeMovie, "  blade runner ")
	if a != b {
		t.Errorf("title case and whitespace should not change the ID: %s != %s", a, b)
	}
}

func TestEmbedText(t *testing.T) {
	testCases := []struct {
		name string
		seed SeedItem
		want string
	}{
		{
			name: "title only",
			seed: SeedItem{Title: "Solaris"},
			want: "Solaris",
		},
		{
			name: "title and description",
			seed: SeedItem{Title: "Solaris", Description: "A psychologist visits a space station."},
			want: "Solaris. A psychologist visits a space station.",
		},
		{
			name: "with genres",
			seed: SeedItem{
				Title:       "Solaris",
				Description: "A psychologist visits a space station.",
				Metadata: domain.JSONMap{
					"genres": []interface{}{"sci-fi", "drama"},
				},
			},
			want: "Solaris. A psychologist visits a space station.. Genres: sci-fi, drama",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := embedText(&tc.seed); got != tc.want {
				t.Errorf("embedText = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestResolveArtworkPath(t *testing.T) {
	if got := resolveArtworkPath("/seeds", "covers/a.jpg"); got != filepath.Join("/seeds", "covers/a.jpg") {
		t.Errorf("relative path not joined: %q", got)
	}
	if got := resolveArtworkPath("/seeds", "/abs/a.jpg"); got != "/abs/a.jpg" {
		t.Errorf("absolute path altered: %q", got)
	}
	if got := resolveArtworkPath("/seeds", ""); got != "" {
		t.Errorf("empty path altered: %q", got)
	}
}

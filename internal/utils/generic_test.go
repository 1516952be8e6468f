package utils

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func TestGenerateReference(t *testing.T) {
	ref := GenerateReference(6)
	if len(ref) != 6 {
		t.Fatalf("len = %d", len(ref))
	}
	for _, r := range ref {
		if !strings.ContainsRune(referenceAlphabet, r) {
			t.Errorf("unexpected rune %q in %q", r, ref)
		}
	}
	if RandomString(12) == RandomString(12) {
		t.Error("RandomString returned the same value twice")
	}
}

func TestGenerateCode(t *testing.T) {
	if got := GenerateCode(nil, "EXP", 3); got != "EXP-30001" {
		t.Errorf("empty = %q", got)
	}
	existing := []string{"EXP-30001", "EXP-30003"}
	if got := GenerateCode(existing, "EXP", 3); got != "EXP-30004" {
		t.Errorf("collision = %q", got)
	}
}

func TestDistanceKm(t *testing.T) {
	// Lagos to Abuja is roughly 525 km as the crow flies.
	d := DistanceKm(6.5244, 3.3792, 9.0765, 7.3986)
	if math.Abs(d-525) > 15 {
		t.Errorf("DistanceKm = %.1f", d)
	}
	if DistanceKm(1, 1, 1, 1) != 0 {
		t.Error("zero distance expected")
	}
}

func TestDateDifference(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{5 * time.Minute, "5 min"},
		{90 * time.Minute, "1 hour"},
		{5 * time.Hour, "5 hours"},
		{30 * time.Hour, "Yesterday"},
		{72 * time.Hour, "07/05/2024"},
	}
	for _, tc := range tests {
		if got := DateDifference(now.Add(-tc.ago), now); got != tc.want {
			t.Errorf("DateDifference(-%v) = %q, want %q", tc.ago, got, tc.want)
		}
	}
}

func TestWordHelpers(t *testing.T) {
	if got := CapitalizeWords("lagos university teaching hospital"); got != "Lagos University Teaching Hospital" {
		t.Errorf("CapitalizeWords = %q", got)
	}
	if got := Slug(" general  surgery "); got != "GENERAL_SURGERY" {
		t.Errorf("Slug = %q", got)
	}
}

func TestPodcastEmbedLink(t *testing.T) {
	tests := []struct {
		source, link, want string
	}{
		{"youtube", "https://www.youtube.com/watch?v=abc123", "https://www.youtube.com/embed/abc123"},
		{"youtube", "https://www.youtube.com/embed/abc123", "https://www.youtube.com/embed/abc123"},
		{"spotify", "https://open.spotify.com/episode/xyz", "https://open.spotify.com/embed/episode/xyz?utm_source=generator"},
		{"Apple", "https://podcasts.apple.com/ng/podcast/ep?i=1",
			"https://embed.podcasts.apple.com/ng/podcast/ep?i=1&itsct=podcast_box_player&itscg=30200&ls=1&theme=auto"},
	}
	for _, tc := range tests {
		got, err := PodcastEmbedLink(tc.source, tc.link)
		if err != nil || got != tc.want {
			t.Errorf("PodcastEmbedLink(%s, %s) = %q, %v; want %q", tc.source, tc.link, got, err, tc.want)
		}
	}

	for _, bad := range [][2]string{{"youtube", "https://vimeo.com/1"}, {"soundcloud", "https://x"}, {"youtube", "https://www.youtube.com/embed/"}} {
		if _, err := PodcastEmbedLink(bad[0], bad[1]); !errors.Is(err, ErrPodcastLink) {
			t.Errorf("PodcastEmbedLink(%v) err = %v", bad, err)
		}
	}
}

func TestPassword(t *testing.T) {
	PasswordCost = 4
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPasswordHash("s3cret-pass", hash) || CheckPasswordHash("wrong", hash) {
		t.Error("CheckPasswordHash mismatch")
	}

	limit := strings.Repeat("a", MaxPasswordBytes)
	if _, err := HashPassword(limit); err != nil {
		t.Errorf("72-byte password: %v", err)
	}
	// Multi-byte runes count by bytes: 37 of them are 74 bytes.
	for _, pw := range []string{limit + "b", strings.Repeat("é", 37)} {
		if _, err := HashPassword(pw); !errors.Is(err, ErrPasswordTooLong) {
			t.Errorf("HashPassword(%d bytes) err = %v", len(pw), err)
		}
	}
	long, _ := HashPassword(limit)
	if CheckPasswordHash(limit+"b", long) {
		t.Error("a longer password matched the 72-byte prefix hash")
	}
}

func TestNeedsRehash(t *testing.T) {
	PasswordCost = 4
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatal(err)
	}
	if NeedsRehash(hash) {
		t.Error("fresh hash needs rehash")
	}
	PasswordCost = 5
	defer func() { PasswordCost = 4 }()
	if !NeedsRehash(hash) || !NeedsRehash("plaintext") {
		t.Error("stale hash not flagged")
	}
}

package utils

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"slices"
	"strings"
	"time"
)

const (
	referenceAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	stringAlphabet    = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

func randomFrom(alphabet string, n int) string {
	var b strings.Builder
	b.Grow(n)
	limit := big.NewInt(int64(len(alphabet)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			panic(err) // crypto/rand does not fail on supported platforms
		}
		b.WriteByte(alphabet[idx.Int64()])
	}
	return b.String()
}

// GenerateReference returns n random characters from 0-9A-Z.
func GenerateReference(n int) string { return randomFrom(referenceAlphabet, n) }

// RandomString returns n random alphanumeric characters.
func RandomString(n int) string { return randomFrom(stringAlphabet, n) }

// GenerateCode returns "<prefix>-<id><nnnn>" with the smallest counter,
// starting after len(existing), that is not already taken.
func GenerateCode(existing []string, prefix string, id int) string {
	count := len(existing) + 1
	for {
		code := fmt.Sprintf("%s-%d%04d", prefix, id, count)
		if !slices.Contains(existing, code) {
			return code
		}
		count++
	}
}

const earthRadiusKm = 6371

// DistanceKm is the haversine distance between two coordinates.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	rad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)
	a := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Pow(math.Sin(dLon/2), 2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// DateDifference renders how long ago t was relative to now.
func DateDifference(t, now time.Time) string {
	minutes := int(now.Sub(t).Minutes())
	switch {
	case minutes < 60:
		return fmt.Sprintf("%d min", minutes)
	case minutes < 24*60:
		if hours := minutes / 60; hours != 1 {
			return fmt.Sprintf("%d hours", hours)
		}
		return "1 hour"
	case minutes < 48*60:
		return "Yesterday"
	}
	return t.Format("02/01/2006")
}

// CapitalizeWords upper-cases the first letter of every word.
func CapitalizeWords(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// Slug upper-cases text and joins words with underscores.
func Slug(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), "_"))
}

var ErrPodcastLink = errors.New("invalid podcast link")

var embedPrefixes = map[string]struct{ share, embed, suffix string }{
	"youtube": {"https://www.youtube.com/watch?v=", "https://www.youtube.com/embed/", ""},
	"spotify": {"https://open.spotify.com/episode/", "https://open.spotify.com/embed/episode/", "?utm_source=generator"},
	"apple":   {"https://podcasts.apple.com", "https://embed.podcasts.apple.com", "&itsct=podcast_box_player&itscg=30200&ls=1&theme=auto"},
}

// PodcastEmbedLink turns a share or embed link into the embeddable form for
// source (youtube, spotify or apple).
func PodcastEmbedLink(source, link string) (string, error) {
	p, ok := embedPrefixes[strings.ToLower(source)]
	if !ok {
		return "", fmt.Errorf("%w: unknown podcast source %q", ErrPodcastLink, source)
	}
	var rest string
	switch {
	case strings.HasPrefix(link, p.embed):
		rest = strings.TrimPrefix(link, p.embed)
	case strings.HasPrefix(link, p.share):
		rest = strings.TrimPrefix(link, p.share)
	default:
		return "", fmt.Errorf("%w: %s link format", ErrPodcastLink, source)
	}
	if rest == "" {
		return "", fmt.Errorf("%w: %s link format", ErrPodcastLink, source)
	}
	if p.suffix != "" && strings.HasSuffix(rest, p.suffix) {
		return p.embed + rest, nil
	}
	return p.embed + rest + p.suffix, nil
}

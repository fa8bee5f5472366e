package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/gosimple/slug"
)

const slugAttempts = 5

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomString(n int) (string, error) {
	out := make([]byte, n)
	limit := big.NewInt(int64(len(alphanumeric)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to generate random character: %w", err)
		}
		out[i] = alphanumeric[idx.Int64()]
	}
	return string(out), nil
}

// makeSlug slugifies title cut to maxLen, or ten random characters when the
// result is shorter than minLen
func makeSlug(title string, minLen, maxLen int) (string, error) {
	s := slug.Make(title)
	if len(s) > maxLen {
		s = strings.TrimRight(s[:maxLen], "-")
	}
	if len(s) >= minLen {
		return s, nil
	}
	r, err := randomString(10)
	if err != nil {
		return "", err
	}
	return slug.Make(r), nil
}

// uniqueSlug returns base, or base with a random suffix, whichever exists reports as free first
func uniqueSlug(ctx context.Context, base string, exists func(context.Context, string) (bool, error)) (string, error) {
	candidate := base
	for i := 0; i < slugAttempts; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		suffix, err := randomString(4)
		if err != nil {
			return "", err
		}
		candidate = base + "-" + slug.Make(suffix)
	}
	return "", fmt.Errorf("no free slug for %q after %d attempts", base, slugAttempts)
}

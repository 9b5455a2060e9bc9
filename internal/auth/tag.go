package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	tagStemMax     = 12
	tagMaxAttempts = 10
)

// newTagCandidate derives a public tag from a username: "@" plus a
// lowercase alphanumeric stem (at most 12 chars) plus a random four
// digit suffix. Usernames with no ASCII alphanumerics fall back to a
// "user" stem so the suffix is not the only source of uniqueness.
func newTagCandidate(username string) string {
	var stem strings.Builder
	for _, r := range strings.ToLower(username) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			stem.WriteRune(r)
			if stem.Len() == tagStemMax {
				break
			}
		}
	}
	if stem.Len() == 0 {
		stem.WriteString("user")
	}

	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	suffix := int64(1000)
	if err == nil {
		suffix += n.Int64()
	}

	return fmt.Sprintf("@%s%d", stem.String(), suffix)
}

// GenerateTag produces a tag that does not collide with any existing
// one, retrying with a fresh suffix until the lookup comes back clean.
func GenerateTag(
	ctx context.Context,
	username string,
	exists func(ctx context.Context, tag string) (bool, error),
) (string, error) {
	for i := 0; i < tagMaxAttempts; i++ {
		tag := newTagCandidate(username)

		taken, err := exists(ctx, tag)
		if err != nil {
			return "", err
		}
		if !taken {
			return tag, nil
		}
	}
	return "", fmt.Errorf("auth: could not generate unique tag for %q", username)
}

// Package auth derives the synthetic offline identity used in place of
// Mojang/Microsoft authentication, which is explicitly out of scope.
package auth

import "github.com/google/uuid"

// OfflineAccessToken is the sentinel access token vanilla builds accept for
// an offline-profile launch.
const OfflineAccessToken = "0"

// NewOfflineUUID returns a freshly generated v4 UUID for a single launch. It
// is not derived from the username and never repeats across launches.
func NewOfflineUUID() string {
	return uuid.NewString()
}

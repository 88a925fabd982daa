package voice

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// videoGrant mirrors the LiveKit video grant claim: join/publish/subscribe
// rights scoped to a single room.
type videoGrant struct {
	Room         string `json:"room"`
	RoomJoin     bool   `json:"roomJoin"`
	CanPublish   bool   `json:"canPublish"`
	CanSubscribe bool   `json:"canSubscribe"`
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Video videoGrant `json:"video"`
}

// signRoomToken issues a short-lived HS256 access token granting identity the
// right to join and publish/subscribe in room.
func signRoomToken(apiKey, apiSecret, room, identity string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    apiKey,
			Subject:   identity,
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Video: videoGrant{
			Room:         room,
			RoomJoin:     true,
			CanPublish:   true,
			CanSubscribe: true,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(apiSecret))
	if err != nil {
		return "", fmt.Errorf("sign room token: %w", err)
	}
	return signed, nil
}

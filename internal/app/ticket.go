package app

import (
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// craftTicketTTL bounds how long a deferred-image craft can stay
// unfinalized before its ticket expires.
const craftTicketTTL = 30 * time.Minute

// TicketService signs craft tickets for deferred-image crafting. The
// combine response carries a ticket binding the match, cache key and
// Oracle-produced name/description; Finalize must present it so the
// engine never trusts client-supplied card text on its own.
type TicketService struct {
	secret string
}

// NewTicketService constructs a ticket service with the signing secret.
func NewTicketService(secret string) *TicketService {
	return &TicketService{secret: secret}
}

// Issue signs a ticket for a pending craft.
func (s *TicketService) Issue(matchID, cacheKey, name, description string) (string, error) {
	if s.secret == "" {
		return "", fmt.Errorf("ticket secret is not configured")
	}

	claims := jwt.MapClaims{
		"mid":  matchID,
		"key":  cacheKey,
		"name": name,
		"desc": description,
		"exp":  time.Now().Add(craftTicketTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// Verify checks a ticket's signature and that its claims match the
// finalize request. Any mismatch is reported as ErrBadTicket.
func (s *TicketService) Verify(ticket, matchID, cacheKey, name, description string) error {
	token, err := jwt.Parse(ticket, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil || !token.Valid {
		return ErrBadTicket
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ErrBadTicket
	}
	if claims["mid"] != matchID || claims["key"] != cacheKey ||
		claims["name"] != name || claims["desc"] != description {
		return ErrBadTicket
	}
	return nil
}

package iam

import (
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

// tokenClaims is the claim set a coredb session token carries: the
// principal's bound level plus a flat role list at that level.
type tokenClaims struct {
	jwt.RegisteredClaims
	NS    string   `json:"ns,omitempty"`
	DB    string   `json:"db,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

// TokenAuth is a concrete Auth principal decoded from a signed JWT; it
// stands in for the real session-resolution collaborator in the CLI and
// in tests.
type TokenAuth struct {
	level Resource
	roles map[Role]bool
}

var roleNames = map[string]Role{
	"viewer": Viewer,
	"editor": Editor,
	"owner":  Owner,
}

// ParseToken decodes raw using secret as the HMAC verification key and
// returns the principal it describes.
func ParseToken(raw string, secret []byte) (*TokenAuth, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("iam: unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("iam: invalid token: %w", err)
	}

	level := Resource{Level: LevelRoot}
	switch {
	case claims.NS != "" && claims.DB != "":
		level = Resource{Level: LevelDB, NS: claims.NS, DB: claims.DB}
	case claims.NS != "":
		level = Resource{Level: LevelNS, NS: claims.NS}
	}

	roles := make(map[Role]bool, len(claims.Roles))
	for _, name := range claims.Roles {
		if r, ok := roleNames[name]; ok {
			roles[r] = true
		}
	}

	return &TokenAuth{level: level, roles: roles}, nil
}

func (a *TokenAuth) IsAnon() bool { return len(a.roles) == 0 }
func (a *TokenAuth) IsRoot() bool { return a.level.Level == LevelRoot }
func (a *TokenAuth) IsNS() bool   { return a.level.Level == LevelNS }
func (a *TokenAuth) IsDB() bool   { return a.level.Level == LevelDB }
func (a *TokenAuth) Level() Resource { return a.level }
func (a *TokenAuth) HasRole(r Role) bool { return a.roles[r] }

// IsAllowed reports whether a may perform action on res: the
// principal's bound level must contain res, and a must hold at least
// Viewer for View or Editor for Edit.
func (a *TokenAuth) IsAllowed(action Action, res Resource) error {
	if !levelContains(a.level, res) {
		return &ErrNotAllowed{Action: action, Resource: res}
	}
	switch action {
	case View:
		if a.HasRole(Viewer) || a.HasRole(Editor) || a.HasRole(Owner) {
			return nil
		}
	case Edit:
		if a.HasRole(Editor) || a.HasRole(Owner) {
			return nil
		}
	}
	return &ErrNotAllowed{Action: action, Resource: res}
}

// levelContains reports whether bound (the principal's level) covers
// target (the resource being checked): Root covers everything, NS
// covers its own namespace, DB covers only its own namespace+database.
func levelContains(bound, target Resource) bool {
	switch bound.Level {
	case LevelRoot:
		return true
	case LevelNS:
		return target.NS == bound.NS
	case LevelDB:
		return target.NS == bound.NS && target.DB == bound.DB
	default:
		return target.NS == bound.NS && target.DB == bound.DB && target.Scope == bound.Scope
	}
}

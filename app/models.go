package app

import (
	"github.com/tech-arch1tect/jwtauth/services/refreshtoken"
	"github.com/tech-arch1tect/jwtauth/services/resetcode"
	"github.com/tech-arch1tect/jwtauth/services/revocation"
	"github.com/tech-arch1tect/jwtauth/services/users"
)

// Models lists every table the service owns.
func Models() []any {
	return []any{
		&users.User{},
		&resetcode.Record{},
		&refreshtoken.RefreshToken{},
		&revocation.RevokedToken{},
	}
}

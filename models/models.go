package models

import (
	"github.com/MrBreathe/mrbreathe/models/user"
)

var User = func() *user.Manager {
	return user.NewManager(new(user.Postgres))
}

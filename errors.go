package ejabberd

import "github.com/broady/ejabberd/api"

// CodeUserAlreadyRegistered is reported by Register when the account exists.
const CodeUserAlreadyRegistered api.ErrorCode = "user_already_registered"

// ErrUserAlreadyRegistered matches registration conflicts with errors.Is.
// The offending username is available in the error's "user" detail.
var ErrUserAlreadyRegistered = &api.Error{Code: CodeUserAlreadyRegistered}

func userAlreadyRegistered(user string) *api.Error {
	return api.Errorf(CodeUserAlreadyRegistered, "user with username %s already exists", user).
		WithDetail("user", user)
}

package ejabberd

import (
	"github.com/broady/ejabberd/api"
	"github.com/gorilla/schema"
)

var paramEncoder = schema.NewEncoder()

// AddRosterItemParams are the arguments of AddRosterItem. Nick, Group and
// Subs are sent even when empty.
type AddRosterItemParams struct {
	LocalUser   string `schema:"localuser"`
	LocalServer string `schema:"localserver"`
	User        string `schema:"user"`
	Server      string `schema:"server"`
	Nick        string `schema:"nick"`
	Group       string `schema:"group"`
	// Subs is the subscription state: none, from, to or both.
	Subs string `schema:"subs"`
}

// DeleteRosterItemParams are the arguments of DeleteRosterItem.
type DeleteRosterItemParams struct {
	LocalUser   string `schema:"localuser"`
	LocalServer string `schema:"localserver"`
	User        string `schema:"user"`
	Server      string `schema:"server"`
}

// argsFrom encodes a flat parameter struct into keyword arguments, keyed by
// the fields' schema tags.
func argsFrom(params any) (api.Args, error) {
	values := make(map[string][]string)
	if err := paramEncoder.Encode(params, values); err != nil {
		return nil, api.Errorf(api.CodeInvalidArgument, "encoding %T", params).WithCause(err)
	}
	args := make(api.Args, len(values))
	for k, v := range values {
		if len(v) > 0 {
			args[k] = v[0]
		}
	}
	return args, nil
}

package muc

import "github.com/broady/ejabberd/api"

// RoomOptionArgument declares an argument taking a RoomOption.
func RoomOptionArgument(name string) api.Argument {
	return api.Enum(name, roomOptions)
}

// AffiliationArgument declares an argument taking an Affiliation.
func AffiliationArgument(name string) api.Argument {
	return api.Enum(name, affiliations)
}

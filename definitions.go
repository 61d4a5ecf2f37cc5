package ejabberd

import (
	"fmt"

	"github.com/broady/ejabberd/api"
	"github.com/broady/ejabberd/muc"
)

var echoThisNew = api.NewOperation("echothisnew",
	func(_ api.Args, r api.Response) (string, error) {
		return r.String("repeated"), nil
	},
	api.String("sentence"))

var registeredUsers = api.NewOperation("registered_users",
	func(_ api.Args, r api.Response) ([]string, error) {
		return r.Pluck("users", "username")
	},
	api.String("host"))

var register = api.NewOperation("register", api.Succeeded,
	api.String("user"), api.String("host"), api.String("password")).
	ValidateResponse(func(args api.Args, r api.Response) error {
		if res, ok := r.Int("res"); ok && res == 1 {
			return userAlreadyRegistered(fmt.Sprint(args["user"]))
		}
		return nil
	})

var unregister = api.NewOperation("unregister", api.Succeeded,
	api.String("user"), api.String("host"))

var changePassword = api.NewOperation("change_password", api.Succeeded,
	api.String("user"), api.String("host"), api.String("newpass"))

var checkPasswordHash = api.NewOperation("check_password_hash", api.Succeeded,
	api.String("user"), api.String("host"), api.String("passwordhash"), api.String("hashmethod")).
	Accepts(api.String("user"), api.String("host"), api.String("password")).
	TransformArguments(func(args api.Args) (api.Args, error) {
		password, err := api.String("password").Coerce(args["password"])
		if err != nil {
			return nil, err
		}
		delete(args, "password")
		args["passwordhash"] = PasswordHash(password.(string))
		args["hashmethod"] = hashMethodSHA
		return args, nil
	})

var setNickname = api.NewOperation("set_nickname", api.Succeeded,
	api.String("user"), api.String("host"), api.String("nickname"))

var connectedUsers = api.NewOperation("connected_users",
	func(_ api.Args, r api.Response) ([]string, error) {
		return r.Pluck("connected_users", "sessions")
	})

var connectedUsersInfo = api.NewOperation("connected_users_info",
	func(_ api.Args, r api.Response) ([]Session, error) {
		return decodeRecords[Session](r, "connected_users_info", "sessions")
	})

var connectedUsersNumber = api.NewOperation("connected_users_number",
	func(_ api.Args, r api.Response) (int, error) {
		n, ok := r.Int("num_sessions")
		if !ok {
			return 0, api.NewError(api.CodeInvalidResponse, "missing num_sessions").WithDetail("field", "num_sessions")
		}
		return n, nil
	})

var userSessionsInfo = api.NewOperation("user_sessions_info",
	func(_ api.Args, r api.Response) ([]Session, error) {
		return decodeRecords[Session](r, "sessions_info", "session")
	},
	api.String("user"), api.String("host"))

var mucOnlineRooms = api.NewOperation("muc_online_rooms",
	func(_ api.Args, r api.Response) ([]string, error) {
		return r.Pluck("rooms", "room")
	},
	api.String("host"))

var createRoom = api.NewOperation("create_room", api.Succeeded,
	api.String("name"), api.String("service"), api.String("host"))

var destroyRoom = api.NewOperation("destroy_room", api.Succeeded,
	api.String("name"), api.String("service"), api.String("host"))

var getRoomOptions = api.NewOperation("get_room_options", roomOptionsResult,
	api.String("name"), api.String("service"))

var changeRoomOption = api.NewOperation("change_room_option", api.Succeeded,
	api.String("name"), api.String("service"), muc.RoomOptionArgument("option"), api.String("value")).
	Accepts(api.String("name"), api.String("service"), muc.RoomOptionArgument("option"), api.Value("value", nil)).
	TransformArguments(func(args api.Args) (api.Args, error) {
		coerced, err := muc.RoomOptionArgument("option").Coerce(args["option"])
		if err != nil {
			return nil, err
		}
		option := coerced.(muc.RoomOption)
		value := args["value"]
		if s, ok := value.(string); ok {
			parsed, err := muc.ParseOptionValue(option, s)
			if err != nil {
				return nil, err
			}
			value = parsed
		}
		text, err := muc.EncodeOptionValue(option, value)
		if err != nil {
			return nil, err
		}
		args["value"] = text
		return args, nil
	})

var setRoomAffiliation = api.NewOperation("set_room_affiliation", api.Succeeded,
	api.String("name"), api.String("service"), api.String("jid"), muc.AffiliationArgument("affiliation"))

var getRoomAffiliations = api.NewOperation("get_room_affiliations", roomAffiliationsResult,
	api.String("name"), api.String("service"))

var addRosterItem = api.NewOperation("add_rosteritem", api.Succeeded,
	api.String("localuser"), api.String("localserver"),
	api.String("user"), api.String("server"),
	api.String("nick"), api.String("group"), api.String("subs"))

var deleteRosterItem = api.NewOperation("delete_rosteritem", api.Succeeded,
	api.String("localuser"), api.String("localserver"),
	api.String("user"), api.String("server"))

var getRoster = api.NewOperation("get_roster",
	func(_ api.Args, r api.Response) ([]RosterItem, error) {
		return decodeRecords[RosterItem](r, "contacts", "contact")
	},
	api.String("user"), api.String("host"))

var getRoomOccupants = api.NewOperation("get_room_occupants",
	func(_ api.Args, r api.Response) ([]Occupant, error) {
		return decodeRecords[Occupant](r, "occupants", "occupant")
	},
	api.String("name"), api.String("service"))

var sendStanza = api.NewOperation("send_stanza", api.Succeeded,
	api.String("from"), api.String("to"), api.String("stanza"))

var operations = api.NewRegistry().MustRegister(
	echoThisNew,
	registeredUsers,
	register,
	unregister,
	changePassword,
	checkPasswordHash,
	setNickname,
	connectedUsers,
	connectedUsersInfo,
	connectedUsersNumber,
	userSessionsInfo,
	mucOnlineRooms,
	createRoom,
	destroyRoom,
	getRoomOptions,
	changeRoomOption,
	setRoomAffiliation,
	getRoomAffiliations,
	addRosterItem,
	deleteRosterItem,
	getRoster,
	getRoomOccupants,
	sendStanza,
)

// Operations returns the registry of every operation in the catalog.
// It must not be modified.
func Operations() *api.Registry {
	return operations
}

func decodeRecords[T any](r api.Response, listKey, wrapperKey string) ([]T, error) {
	records, err := r.Records(listKey, wrapperKey)
	if err != nil {
		return nil, err
	}
	return api.DecodeAll[T](records)
}

// roomOptionsResult flattens options[*].option, each a [{name}, {value}] pair.
func roomOptionsResult(_ api.Args, r api.Response) (map[string]string, error) {
	records, err := r.Records("options", "option")
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(records))
	for i, rec := range records {
		var pair struct {
			Name  string `mapstructure:"name"`
			Value string `mapstructure:"value"`
		}
		if err := api.Decode(rec, &pair); err != nil {
			return nil, indexed(err, i)
		}
		if pair.Name == "" {
			return nil, api.Errorf(api.CodeInvalidResponse, "options[%d]: missing option name", i).WithDetail("index", i)
		}
		out[pair.Name] = pair.Value
	}
	return out, nil
}

func roomAffiliationsResult(_ api.Args, r api.Response) ([]RoomAffiliation, error) {
	records, err := decodeRecords[affiliationRecord](r, "affiliations", "affiliation")
	if err != nil {
		return nil, err
	}
	out := make([]RoomAffiliation, 0, len(records))
	for i, rec := range records {
		aff, err := muc.ParseAffiliation(rec.Affiliation)
		if err != nil {
			return nil, indexed(err, i)
		}
		out = append(out, RoomAffiliation{
			Username:    rec.Username,
			Domain:      rec.Domain,
			Affiliation: aff,
			Reason:      rec.Reason,
		})
	}
	return out, nil
}

func indexed(err error, i int) error {
	if apiErr, ok := err.(*api.Error); ok {
		return apiErr.WithDetail("index", i)
	}
	return err
}

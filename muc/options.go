package muc

import (
	"github.com/broady/ejabberd/api"
)

// optionSerializers maps options to the serializer of their value.
// Options without an entry use api.StringSerializer.
var optionSerializers = map[RoomOption]api.Serializer{
	AllowChangeSubj:                  api.BooleanSerializer{},
	AllowPrivateMessages:             api.BooleanSerializer{},
	AllowPrivateMessagesFromVisitors: api.EnumSerializer{Domain: visitorMessagePolicies},
	AllowQueryUsers:                  api.BooleanSerializer{},
	AllowUserInvites:                 api.BooleanSerializer{},
	AllowVisitorNickchange:           api.BooleanSerializer{},
	AllowVisitorStatus:               api.BooleanSerializer{},
	Anonymous:                        api.BooleanSerializer{},
	CaptchaProtected:                 api.BooleanSerializer{},
	Logging:                          api.BooleanSerializer{},
	MaxUsers:                         api.PositiveIntegerSerializer{},
	MembersByDefault:                 api.BooleanSerializer{},
	MembersOnly:                      api.BooleanSerializer{},
	Moderated:                        api.BooleanSerializer{},
	Password:                         api.StringSerializer{},
	PasswordProtected:                api.BooleanSerializer{},
	Persistent:                       api.BooleanSerializer{},
	Public:                           api.BooleanSerializer{},
	PublicList:                       api.BooleanSerializer{},
	Title:                            api.StringSerializer{},
	AllowSubscription:                api.BooleanSerializer{},
	Description:                      api.StringSerializer{},
	Mam:                              api.BooleanSerializer{},
	VoiceRequestMinInterval:          api.PositiveIntegerSerializer{},
	AllowVoiceRequests:               api.BooleanSerializer{},
}

// SerializerFor returns the serializer for values of option.
func SerializerFor(option RoomOption) api.Serializer {
	if s, ok := optionSerializers[option]; ok {
		return s
	}
	return api.StringSerializer{}
}

// EncodeOptionValue serializes value as the wire text of option.
// A value of the wrong type for the option is an invalid_argument error.
func EncodeOptionValue(option RoomOption, value any) (string, error) {
	if !roomOptions.Valid(option) {
		return "", api.Errorf(api.CodeInvalidArgument, "%d is not a declared room option", int(option))
	}
	w, err := SerializerFor(option).ToWire(value)
	if err != nil {
		return "", optionError(option, err)
	}
	text, err := api.StringSerializer{}.ToWire(w)
	if err != nil {
		return "", optionError(option, err)
	}
	return text.(string), nil
}

// ParseOptionValue converts wire or command-line text into the typed value of option.
func ParseOptionValue(option RoomOption, text string) (any, error) {
	v, err := SerializerFor(option).FromWire(text)
	if err != nil {
		return nil, optionError(option, err)
	}
	return v, nil
}

// DecodeOptions types the values of a get_room_options result. Options the
// server reports but this package does not declare are skipped.
func DecodeOptions(raw map[string]string) (map[RoomOption]any, error) {
	out := make(map[RoomOption]any, len(raw))
	for name, text := range raw {
		option, err := ParseRoomOption(name)
		if err != nil {
			continue
		}
		v, err := ParseOptionValue(option, text)
		if err != nil {
			return nil, err
		}
		out[option] = v
	}
	return out, nil
}

func optionError(option RoomOption, err error) error {
	apiErr, ok := err.(*api.Error)
	if !ok {
		return api.Errorf(api.CodeInvalidArgument, "%s: %v", option, err).WithDetail("option", option.String())
	}
	wrapped := apiErr.WithDetail("option", option.String())
	wrapped.Message = option.String() + ": " + wrapped.Message
	return wrapped
}

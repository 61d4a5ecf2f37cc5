// Package muc holds the multi-user chat vocabulary of the administrative API:
// room options, affiliations and the visitor private message policy.
package muc

import "github.com/broady/ejabberd/api"

// RoomOption names a configurable room setting.
type RoomOption int

const (
	AllowChangeSubj RoomOption = iota + 1
	AllowPrivateMessages
	AllowPrivateMessagesFromVisitors
	AllowQueryUsers
	AllowUserInvites
	AllowVisitorNickchange
	AllowVisitorStatus
	Anonymous
	CaptchaProtected
	Logging
	MaxUsers
	MembersByDefault
	MembersOnly
	Moderated
	Password
	PasswordProtected
	Persistent
	Public
	PublicList
	Title
	AllowSubscription
	CaptchaWhitelist
	Description
	Mam
	PresenceBroadcast
	Vcard
	VoiceRequestMinInterval
	AllowVoiceRequests
)

var roomOptions = api.NewSet[RoomOption]("room option",
	"allow_change_subj",
	"allow_private_messages",
	"allow_private_messages_from_visitors",
	"allow_query_users",
	"allow_user_invites",
	"allow_visitor_nickchange",
	"allow_visitor_status",
	"anonymous",
	"captcha_protected",
	"logging",
	"max_users",
	"members_by_default",
	"members_only",
	"moderated",
	"password",
	"password_protected",
	"persistent",
	"public",
	"public_list",
	"title",
	"allow_subscription",
	"captcha_whitelist",
	"description",
	"mam",
	"presence_broadcast",
	"vcard",
	"voice_request_min_interval",
	"allow_voice_requests",
)

// RoomOptions returns the set of declared room options.
func RoomOptions() *api.Set[RoomOption] { return roomOptions }

// ParseRoomOption returns the room option with the given wire name.
func ParseRoomOption(name string) (RoomOption, error) { return roomOptions.ByName(name) }

func (o RoomOption) String() string { return roomOptions.Name(o) }

// Affiliation is a user's long-lived relationship with a room.
type Affiliation int

const (
	Outcast Affiliation = iota + 1
	None
	Member
	Admin
	Owner
)

var affiliations = api.NewSet[Affiliation]("affiliation",
	"outcast",
	"none",
	"member",
	"admin",
	"owner",
)

// Affiliations returns the set of declared affiliations.
func Affiliations() *api.Set[Affiliation] { return affiliations }

// ParseAffiliation returns the affiliation with the given wire name.
func ParseAffiliation(name string) (Affiliation, error) { return affiliations.ByName(name) }

func (a Affiliation) String() string { return affiliations.Name(a) }

// VisitorMessagePolicy controls who visitors may send private messages to.
// It is the value type of the AllowPrivateMessagesFromVisitors option.
type VisitorMessagePolicy int

const (
	Anyone VisitorMessagePolicy = iota + 1
	Moderators
	Nobody
)

var visitorMessagePolicies = api.NewSet[VisitorMessagePolicy]("visitor message policy",
	"anyone",
	"moderators",
	"nobody",
)

// VisitorMessagePolicies returns the set of declared visitor message policies.
func VisitorMessagePolicies() *api.Set[VisitorMessagePolicy] { return visitorMessagePolicies }

// ParseVisitorMessagePolicy returns the policy with the given wire name.
func ParseVisitorMessagePolicy(name string) (VisitorMessagePolicy, error) {
	return visitorMessagePolicies.ByName(name)
}

func (p VisitorMessagePolicy) String() string { return visitorMessagePolicies.Name(p) }

package ejabberd

import "github.com/broady/ejabberd/muc"

// Session describes one connected resource.
type Session struct {
	JID        string `mapstructure:"jid"`
	Connection string `mapstructure:"connection"`
	IP         string `mapstructure:"ip"`
	Port       int    `mapstructure:"port"`
	Priority   int    `mapstructure:"priority"`
	Node       string `mapstructure:"node"`
	Uptime     int    `mapstructure:"uptime"`
	Status     string `mapstructure:"status"`
	Resource   string `mapstructure:"resource"`
	StatusText string `mapstructure:"statustext"`
	// Extra holds fields reported by the server that have no field above.
	Extra map[string]any `mapstructure:",remain"`
}

// RosterItem is one contact of a user's roster.
type RosterItem struct {
	JID          string         `mapstructure:"jid"`
	Nick         string         `mapstructure:"nick"`
	Subscription string         `mapstructure:"subscription"`
	Ask          string         `mapstructure:"ask"`
	Group        string         `mapstructure:"group"`
	Extra        map[string]any `mapstructure:",remain"`
}

// Occupant is a user present in a room.
type Occupant struct {
	JID   string         `mapstructure:"jid"`
	Nick  string         `mapstructure:"nick"`
	Role  string         `mapstructure:"role"`
	Extra map[string]any `mapstructure:",remain"`
}

// RoomAffiliation is an affiliation entry of a room.
type RoomAffiliation struct {
	Username    string
	Domain      string
	Affiliation muc.Affiliation
	Reason      string
}

// affiliationRecord is the wire shape of a RoomAffiliation.
type affiliationRecord struct {
	Username    string `mapstructure:"username"`
	Domain      string `mapstructure:"domain"`
	Affiliation string `mapstructure:"affiliation"`
	Reason      string `mapstructure:"reason"`
}

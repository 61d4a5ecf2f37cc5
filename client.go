package ejabberd

import (
	"context"
	"log/slog"

	"github.com/broady/ejabberd/api"
	"github.com/broady/ejabberd/muc"
)

// Client invokes the catalog operations through a transport.
// Configure it before first use; afterwards it is safe for concurrent use.
type Client struct {
	inv *api.Invoker
}

// NewClient creates a client sending calls through t.
func NewClient(t api.Transport) *Client {
	return &Client{
		inv: api.NewInvoker(t).WithRegistry(operations),
	}
}

// WithInterceptor adds an interceptor wrapping every call.
// Interceptors execute in the order they were added.
func (c *Client) WithInterceptor(i api.Interceptor) *Client {
	c.inv.WithInterceptor(i)
	return c
}

// WithLogger sets a custom logger for the client.
// If not set, slog.Default() will be used.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	c.inv.WithLogger(logger)
	return c
}

// Invoker returns the underlying invoker.
func (c *Client) Invoker() *api.Invoker {
	return c.inv
}

// Call invokes the catalog operation named method with keyword arguments.
func (c *Client) Call(ctx context.Context, method string, args api.Args) (any, error) {
	return c.inv.Call(ctx, method, args)
}

// EchoThisNew returns sentence as echoed by the server.
func (c *Client) EchoThisNew(ctx context.Context, sentence string) (string, error) {
	return api.Invoke(ctx, c.inv, echoThisNew, api.Args{"sentence": sentence})
}

// RegisteredUsers lists the accounts of host.
func (c *Client) RegisteredUsers(ctx context.Context, host string) ([]string, error) {
	return api.Invoke(ctx, c.inv, registeredUsers, api.Args{"host": host})
}

// Register creates an account. It fails with ErrUserAlreadyRegistered when
// the account exists.
func (c *Client) Register(ctx context.Context, user, host, password string) (bool, error) {
	return api.Invoke(ctx, c.inv, register, api.Args{"user": user, "host": host, "password": password})
}

// Unregister deletes an account.
func (c *Client) Unregister(ctx context.Context, user, host string) (bool, error) {
	return api.Invoke(ctx, c.inv, unregister, api.Args{"user": user, "host": host})
}

// ChangePassword sets a new password for an account.
func (c *Client) ChangePassword(ctx context.Context, user, host, newPassword string) (bool, error) {
	return api.Invoke(ctx, c.inv, changePassword, api.Args{"user": user, "host": host, "newpass": newPassword})
}

// CheckPassword reports whether password is the account's password.
// Only its SHA-1 digest is sent.
func (c *Client) CheckPassword(ctx context.Context, user, host, password string) (bool, error) {
	return api.Invoke(ctx, c.inv, checkPasswordHash, api.Args{"user": user, "host": host, "password": password})
}

// SetNickname sets the vCard nickname of an account.
func (c *Client) SetNickname(ctx context.Context, user, host, nickname string) (bool, error) {
	return api.Invoke(ctx, c.inv, setNickname, api.Args{"user": user, "host": host, "nickname": nickname})
}

// ConnectedUsers lists the full JIDs of every open session.
func (c *Client) ConnectedUsers(ctx context.Context) ([]string, error) {
	return api.Invoke(ctx, c.inv, connectedUsers, nil)
}

// ConnectedUsersInfo describes every open session.
func (c *Client) ConnectedUsersInfo(ctx context.Context) ([]Session, error) {
	return api.Invoke(ctx, c.inv, connectedUsersInfo, nil)
}

// ConnectedUsersNumber counts the open sessions.
func (c *Client) ConnectedUsersNumber(ctx context.Context) (int, error) {
	return api.Invoke(ctx, c.inv, connectedUsersNumber, nil)
}

// UserSessionsInfo describes the sessions of one account.
func (c *Client) UserSessionsInfo(ctx context.Context, user, host string) ([]Session, error) {
	return api.Invoke(ctx, c.inv, userSessionsInfo, api.Args{"user": user, "host": host})
}

// OnlineRooms lists the rooms active on host.
func (c *Client) OnlineRooms(ctx context.Context, host string) ([]string, error) {
	return api.Invoke(ctx, c.inv, mucOnlineRooms, api.Args{"host": host})
}

// CreateRoom creates a room on service, hosted by host.
func (c *Client) CreateRoom(ctx context.Context, name, service, host string) (bool, error) {
	return api.Invoke(ctx, c.inv, createRoom, api.Args{"name": name, "service": service, "host": host})
}

// DestroyRoom removes a room and kicks its occupants.
func (c *Client) DestroyRoom(ctx context.Context, name, service, host string) (bool, error) {
	return api.Invoke(ctx, c.inv, destroyRoom, api.Args{"name": name, "service": service, "host": host})
}

// RoomOptions returns the raw option values of a room, keyed by option name.
// Use muc.DecodeOptions to type them.
func (c *Client) RoomOptions(ctx context.Context, name, service string) (map[string]string, error) {
	return api.Invoke(ctx, c.inv, getRoomOptions, api.Args{"name": name, "service": service})
}

// ChangeRoomOption sets one room option. value must have the option's type:
// bool, int, string or muc.VisitorMessagePolicy.
func (c *Client) ChangeRoomOption(ctx context.Context, name, service string, option muc.RoomOption, value any) (bool, error) {
	return api.Invoke(ctx, c.inv, changeRoomOption, api.Args{
		"name":    name,
		"service": service,
		"option":  option,
		"value":   value,
	})
}

// SetRoomAffiliation changes the affiliation of jid in a room.
func (c *Client) SetRoomAffiliation(ctx context.Context, name, service, jid string, affiliation muc.Affiliation) (bool, error) {
	return api.Invoke(ctx, c.inv, setRoomAffiliation, api.Args{
		"name":        name,
		"service":     service,
		"jid":         jid,
		"affiliation": affiliation,
	})
}

// RoomAffiliations lists the affiliations of a room.
func (c *Client) RoomAffiliations(ctx context.Context, name, service string) ([]RoomAffiliation, error) {
	return api.Invoke(ctx, c.inv, getRoomAffiliations, api.Args{"name": name, "service": service})
}

// AddRosterItem adds a contact to a user's roster.
func (c *Client) AddRosterItem(ctx context.Context, params AddRosterItemParams) (bool, error) {
	args, err := argsFrom(params)
	if err != nil {
		return false, err
	}
	return api.Invoke(ctx, c.inv, addRosterItem, args)
}

// DeleteRosterItem removes a contact from a user's roster.
func (c *Client) DeleteRosterItem(ctx context.Context, params DeleteRosterItemParams) (bool, error) {
	args, err := argsFrom(params)
	if err != nil {
		return false, err
	}
	return api.Invoke(ctx, c.inv, deleteRosterItem, args)
}

// Roster returns a user's contacts.
func (c *Client) Roster(ctx context.Context, user, host string) ([]RosterItem, error) {
	return api.Invoke(ctx, c.inv, getRoster, api.Args{"user": user, "host": host})
}

// RoomOccupants lists the users present in a room.
func (c *Client) RoomOccupants(ctx context.Context, name, service string) ([]Occupant, error) {
	return api.Invoke(ctx, c.inv, getRoomOccupants, api.Args{"name": name, "service": service})
}

// SendStanza routes a raw XML stanza from one JID to another.
func (c *Client) SendStanza(ctx context.Context, from, to, stanza string) (bool, error) {
	return api.Invoke(ctx, c.inv, sendStanza, api.Args{"from": from, "to": to, "stanza": stanza})
}

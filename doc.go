// Package ejabberd is a typed client for the ejabberd XML-RPC administrative API.
//
// The catalog declares each administrative command once, with its wire
// method name, its arguments and the shaping of its response. A [Client]
// exposes them as Go methods:
//
//	t, err := transport.NewXMLRPC(transport.Config{URL: "http://127.0.0.1:4560"})
//	if err != nil {
//	    return err
//	}
//	client := ejabberd.NewClient(t)
//	ok, err := client.Register(ctx, "alice", "example.com", "secret")
//	if errors.Is(err, ejabberd.ErrUserAlreadyRegistered) {
//	    // the account exists
//	}
//
// Operations are also reachable by wire name through [Client.Call], which
// accepts the keyword arguments listed by [Operations].
package ejabberd

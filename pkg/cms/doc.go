/*
Package cms provides a client SDK for the headless content-management backend
that owns all Medialab CRM data, accounts and permissions.

# Client vs Session

The package is organized around two main types:

  - Client: unauthenticated operations (credential exchange, token refresh)
  - Session: authenticated operations carrying the bearer token

Create a Client to initiate authentication:

	client := cms.NewClient("https://cms.example.edu", 10*time.Second)

	pair, err := client.Login(ctx, "user@example.edu", "secret")

Create a Session to perform authenticated calls. The Session owns the
Authorization header for every outbound request; SetToken re-arms it and
SetToken("") disarms it:

	session := client.NewSession(pair.AccessToken)

	me, err := session.Me(ctx)

	requests, err := cms.List[Request](ctx, session, "requests", cms.Query{
		Fields: []string{"*", "department_name.*", "services.*"},
	})

# Global 401 handling

A 401 on ANY authenticated call means the backend no longer honors the token.
Install a hook to observe this at the transport level, independent of whichever
caller tripped it:

	session.SetOnUnauthorized(func() {
		// force logout, purge persisted credentials
	})

# Error Handling

HTTP-level failures are returned as *APIError carrying the status and the
backend error code. Two sentinel conditions are matchable with errors.Is:
ErrUnauthorized (401) and ErrRateLimited (429). Failures to reach the backend
at all are left as transport errors; classify them with IsConnectivity and
IsOffline.
*/
package cms

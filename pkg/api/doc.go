// Package api is the HTTP transport shared by every Atlan service client.
//
// # Overview
//
// [Client] turns an [Endpoint] plus a [Request] into an authenticated JSON call
// against a tenant:
//
//	c, err := api.NewClient(api.Options{BaseURL: "https://acme.atlan.com", APIKey: key})
//	var resp model.RoleResponse
//	err = c.Call(ctx, api.GetRoles, api.Request{Query: q}, &resp)
//
// The client handles:
//   - Bearer authentication and the Atlan agent headers
//   - A unique X-Atlan-Request-Id per call
//   - Retry with exponential backoff for network errors, 429 and 5xx responses
//   - Mapping failed responses to [errors.Error] with the server's error code
//   - Optional response caching through [Client.Cached]
//
// # Endpoints
//
// Endpoint values for every route used by the SDK are declared in endpoints.go.
// Path placeholders such as {guid} are filled from [Request.PathParams] and
// escaped.
//
// [errors.Error]: github.com/matzehuels/atlan-go/pkg/errors.Error
package api

// Package mcp exposes the portal's directory tools over the Model Context
// Protocol.
//
// The server registers the same three tools the assistant uses
// (findLocalEvents, findLocalServices, findLocalProducts) with the official
// MCP Go SDK, so external MCP clients query the same datasets through the
// same resolver.
//
// # Usage
//
//	srv, err := mcp.NewServer(mcp.Config{
//		Name:    "ilovegorakhpur-portal",
//		Version: "1.0.0",
//		Store:   store,
//	})
//	...
//	err = srv.Run(ctx, &mcpsdk.StdioTransport{})
//
// # Thread Safety
//
// Tool handlers read dataset snapshots from the store; the store's own
// locking makes concurrent calls safe.
package mcp

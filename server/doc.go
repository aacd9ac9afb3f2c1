// Package server exposes the HTTP surface: store and product management,
// conversation history, and the streaming chat endpoint.
//
// Every route sits behind bearer token auth. The token resolves to an owner
// identity, the owner to their store, and all downstream calls are scoped
// to that store. Unauthenticated requests are rejected before any model or
// storage work happens.
package server

// Package relay forwards sync engine events to Redis pub/sub.
//
// Every inventory:updated and inventory:conflict event on the engine bus is
// JSON encoded and published on "<prefix>:<kind>", letting storefronts and
// other services react to stock changes without polling the HTTP API.
package relay

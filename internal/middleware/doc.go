// Package middleware provides HTTP middleware for the catalog API.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Prometheus request metrics labelled by route template
//
// Both wrappers pass Flush through so scan event streams are delivered as
// they are written.
package middleware

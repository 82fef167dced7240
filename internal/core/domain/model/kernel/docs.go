// Package kernel contains shared value objects used across all domain aggregates.
//
// The kernel provides:
//   - UUID: validated entity identifiers wrapping github.com/google/uuid
//   - GeoPoint: validated WGS84 coordinates for courier positions and geocoded addresses
//
// All kernel types are immutable value objects created through validating
// constructors. Zero values are invalid and fail Validate(), which protects
// aggregates that embed them from being reconstructed in a half-initialized state.
package kernel

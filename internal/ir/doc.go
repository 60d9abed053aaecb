// Package ir defines the serialisable records arbor exchanges between the
// engine, the host, the commit journal and the test harness.
//
// ir imports nothing internal. Every record serialises through
// MarshalCanonical, so identical commits produce byte-identical JSON and
// identical content-addressed IDs.
//
// Key design constraints:
//   - No float values in canonical JSON; numbers are int64
//   - Attribute values are recorded as strings (fmt.Sprint of the prop)
//   - Ordering uses logical sequence numbers, never wall-clock time
package ir

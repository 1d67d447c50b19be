// Package canonical provides the canonical JSON encoding and the
// content digests used to compare enumeration results.
//
// Two runs of the same search must produce byte-identical canonical output.
// The encoding follows RFC 8785: object keys sorted by UTF-16 code units,
// no HTML escaping, NFC-normalized strings, integers only (no floats, no
// null).
package canonical

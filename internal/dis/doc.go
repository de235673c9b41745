// Package dis binds the IEEE 1278.1A-1998 (DIS version 6) PDU wire layout.
//
// Every record visits its fields in wire order through a single walk method.
// Size, Marshal, Unmarshal, Tree, Dump and Equal are all walkers over that
// order, so the encoded layout, the debug dump and equality cannot drift
// apart. Count and length fields are never stored: they are derived from the
// owning list or byte slice when encoding and drive the element loop when
// decoding.
package dis

/*
Package proto decodes protobuf wire format inside NeoVM contracts.

The Splitter contract receives payout instructions as protobuf messages in
NEP-17 transfer data and walks them field by field with ReadTag, ReadBytes or
ReadFieldLEN. Problems are reported as exception strings instead of errors
since errors are not supported by the VM. Only the subset of the wire format
needed by contracts is implemented.
*/
package proto

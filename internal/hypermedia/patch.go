package hypermedia

// PatchOp is a single RFC 6902 operation
type PatchOp struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// CRCPatch returns the operations that update a client-side CRC remote object
// to crc. Order is significant.
func CRCPatch(crc uint32) []PatchOp {
	return []PatchOp{
		{Op: "replace", Path: "/public/output", Value: crc},
		{Op: "replace", Path: "/readonly/readonlyOutput", Value: crc},
		{Op: "replace", Path: "/private/value", Value: crc},
		{Op: "replace", Path: "/return", Value: crc},
	}
}

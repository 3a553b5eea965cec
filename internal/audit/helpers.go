package audit

import "strconv"

func uintString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

// Ptr is a convenience for the optional id fields of Event.
func Ptr(v uint) *uint {
	return &v
}

package sm9

import "errors"

// Sentinel causes wrapped by DecodeError across both wire codecs.
var (
	errMalformed    = errors.New("malformed DER")
	errWrongLength  = errors.New("field has wrong length")
	errTrailingData = errors.New("trailing bytes after top-level SEQUENCE")
	errWrongEnType  = errors.New("unsupported EnType")
)

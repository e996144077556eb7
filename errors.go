package lectern

import "errors"

// ErrUnknownContent is returned for a content kind other than document or transcript.
var ErrUnknownContent = errors.New("unknown content kind")

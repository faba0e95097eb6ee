package gutendex

import (
	"encoding/json"

	apperrors "github.com/lepinkainen/gutenshelf/internal/errors"
)

// Decode parses a raw catalog search payload. Unknown fields are ignored;
// malformed JSON is reported as a DecodeError.
func Decode(body []byte) (*SearchResponse, error) {
	var resp SearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &apperrors.DecodeError{Err: err}
	}
	return &resp, nil
}

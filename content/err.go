package content

import "github.com/pkg/errors"

// ErrDecode is returned when the source text was retrieved but did not
// yield a single usable post.
var ErrDecode = errors.New("source yielded no decodable posts")

func IsDecode(err error) bool {
	return errors.Cause(err) == ErrDecode
}

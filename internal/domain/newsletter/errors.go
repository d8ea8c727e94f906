package newsletter

import "errors"

var ErrNotSubscribed = errors.New("email is not subscribed")

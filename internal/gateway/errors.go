package gateway

import "errors"

var ErrDuplicateConsignment = errors.New("consignment id already exists")

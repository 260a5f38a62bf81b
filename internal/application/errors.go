package application

import "errors"

var ErrAccountNotConfigured = errors.New("account api not configured")

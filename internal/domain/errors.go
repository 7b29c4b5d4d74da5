package domain

import "github.com/agyouthrise/rise-backend/internal/common"

func invalid(format string, args ...interface{}) error {
	return common.Invalid(format, args...)
}

package handlers

import (
	"time"

	apperrors "github.com/spec-kit/oncall-service/pkg/util/errorutil"
)

const dateLayout = "2006-01-02"

func parseDate(val, field string) (time.Time, error) {
	t, err := time.Parse(dateLayout, val)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("invalid date, expected YYYY-MM-DD", map[string]any{"field": field, "value": val})
	}
	return t, nil
}

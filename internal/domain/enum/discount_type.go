package enum

import (
	"encoding/json"
	"strings"
)

// DiscountType represents how a sale discount is interpreted
type DiscountType int

const (
	DiscountTypeFixed      DiscountType = 0
	DiscountTypePercentage DiscountType = 1
)

func (t DiscountType) String() string {
	names := [...]string{"fixed", "percentage"}
	if int(t) < 0 || int(t) >= len(names) {
		return "fixed"
	}
	return names[t]
}

func (t DiscountType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *DiscountType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = DiscountType(i)
		return nil
	}
	switch strings.ToLower(str) {
	case "percentage", "percent":
		*t = DiscountTypePercentage
	default:
		*t = DiscountTypeFixed
	}
	return nil
}

package kafkain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"admin_console/internal/core/domain"
)

func DecodeStatusChange(b []byte) (domain.StatusChange, error) {
	var c domain.StatusChange

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&c); err != nil {
		return domain.StatusChange{}, fmt.Errorf("json decode: %w", err)
	}

	// 0 is a valid order id, so absence has to be checked on the raw payload.
	var present struct {
		OrderID *int64 `json:"order_id"`
	}
	if err := json.Unmarshal(b, &present); err != nil || present.OrderID == nil {
		return domain.StatusChange{}, errors.New("order_id is required")
	}

	if err := c.Validate(); err != nil {
		return domain.StatusChange{}, fmt.Errorf("domain validate: %w", err)
	}

	return c, nil
}

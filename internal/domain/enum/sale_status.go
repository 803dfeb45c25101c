package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// SaleStatus represents the lifecycle state of a sale
type SaleStatus string

const (
	SaleStatusCompleted SaleStatus = "completed"
	SaleStatusPending   SaleStatus = "pending"
	SaleStatusCanceled  SaleStatus = "canceled"
)

// ParseSaleStatus converts a label to a SaleStatus, case-insensitively
func ParseSaleStatus(s string) (SaleStatus, error) {
	status := SaleStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid sale status %q", s)
	}
	return status, nil
}

// IsValid checks if the status is one of the known values
func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleStatusCompleted, SaleStatusPending, SaleStatusCanceled:
		return true
	}
	return false
}

func (s SaleStatus) String() string {
	return string(s)
}

func (s *SaleStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	status, err := ParseSaleStatus(str)
	if err != nil {
		return err
	}
	*s = status
	return nil
}

func (s SaleStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *SaleStatus) Scan(value interface{}) error {
	if value == nil {
		*s = SaleStatusPending
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = SaleStatus(v)
	case []byte:
		*s = SaleStatus(v)
	default:
		return fmt.Errorf("cannot scan %T into SaleStatus", value)
	}
	return nil
}

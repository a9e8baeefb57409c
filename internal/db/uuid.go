package db

import (
	"database/sql/driver"
	"fmt"

	"github.com/google/uuid"
)

// UUID wraps google's uuid.UUID and stores it as BINARY(16).
type UUID uuid.UUID

// NewUUID creates a new random UUID.
func NewUUID() UUID {
	return UUID(uuid.New())
}

// ParseUUID parses the canonical textual form.
func ParseUUID(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, err
	}
	return UUID(id), nil
}

func (u UUID) String() string {
	return uuid.UUID(u).String()
}

func (u UUID) IsZero() bool {
	return uuid.UUID(u) == uuid.Nil
}

func (u *UUID) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		if len(v) == 16 {
			id, err := uuid.FromBytes(v)
			if err != nil {
				return err
			}
			*u = UUID(id)
			return nil
		}
		return u.UnmarshalText(v)
	case string:
		return u.UnmarshalText([]byte(v))
	default:
		return fmt.Errorf("UUID.Scan: expected []byte, got %T", src)
	}
}

func (u UUID) Value() (driver.Value, error) {
	return uuid.UUID(u).MarshalBinary()
}

func (u UUID) MarshalText() ([]byte, error) {
	return []byte(uuid.UUID(u).String()), nil
}

func (u *UUID) UnmarshalText(text []byte) error {
	parsed, err := uuid.ParseBytes(text)
	if err != nil {
		return err
	}
	*u = UUID(parsed)
	return nil
}

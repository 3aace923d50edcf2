package gormDatatype

import (
	"database/sql/driver"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

type UUID uuid.UUID

func (UUID) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return "UUID"
}

func (UUID) GormDataType() string {
	return "uuid"
}

func (u UUID) GetUUID() uuid.UUID {
	return uuid.UUID(u)
}

func (u *UUID) SetUUID(id uuid.UUID) {
	*u = UUID(id)
}

func (u UUID) String() string {
	return uuid.UUID(u).String()
}

func (u UUID) Value() (driver.Value, error) {
	return uuid.UUID(u).String(), nil
}

func (u UUID) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", u.String())), nil
}

func (u *UUID) Scan(src interface{}) error {
	switch src := src.(type) {
	case nil:
		return nil

	case string:
		// an empty UUID coming from a table stays a null UUID
		if src == "" {
			return nil
		}

		uid, err := uuid.Parse(src)
		if err != nil {
			return fmt.Errorf("Scan: %v", err)
		}

		*u = UUID(uid)

	case []byte:
		if len(src) == 0 {
			return nil
		}

		// a simple slice of 16 bytes is taken as raw, otherwise parse
		if len(src) != 16 {
			return u.Scan(string(src))
		}
		copy((*u)[:], src)

	default:
		return fmt.Errorf("Scan: unable to scan type %T into UUID", src)
	}

	return nil
}

package model

import (
	"bytes"
	"fmt"
	"strconv"
)

// Status is the item status. Only the values 0, 1 and 2 are valid.
type Status int

// Item statuses.
const (
	StatusNew Status = iota
	StatusActive
	StatusDone
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusNew, StatusActive, StatusDone}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s >= StatusNew && s <= StatusDone
}

// Next cycles to the following status, wrapping after the last one.
func (s Status) Next() Status {
	if !s.Valid() {
		return StatusNew
	}
	return (s + 1) % Status(len(Statuses))
}

// Prev cycles to the preceding status, wrapping before the first one.
func (s Status) Prev() Status {
	if !s.Valid() {
		return StatusNew
	}
	n := Status(len(Statuses))
	return (s + n - 1) % n
}

// Label is the human-readable status name.
func (s Status) Label() string {
	switch s {
	case StatusNew:
		return "New"
	case StatusActive:
		return "In progress"
	case StatusDone:
		return "Done"
	default:
		return s.String()
	}
}

func (s Status) String() string {
	return strconv.Itoa(int(s))
}

// ParseStatus parses a decimal status value as submitted by a form select.
func ParseStatus(v string) (Status, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid status %q", v)
	}
	s := Status(n)
	if !s.Valid() {
		return 0, fmt.Errorf("status %d out of range", n)
	}
	return s, nil
}

// MarshalJSON always encodes the status as a number.
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(s))), nil
}

// UnmarshalJSON accepts both 1 and "1".
func (s *Status) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = StatusNew
		return nil
	}
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	parsed, err := ParseStatus(string(data))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Package refid normalises record references that clients send either as
// JSON numbers or as numeric strings.
package refid

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalid = errors.New("reference must be a positive integer")

// ID is a reference to another record's numeric identifier. It decodes from
// 7, 7.0, "7" and " 7 " alike and always encodes as a JSON number.
type ID int64

func (id ID) Int64() int64 { return int64(id) }

func (id ID) IsZero() bool { return id == 0 }

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}
	var raw string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		if strings.TrimSpace(raw) == "" {
			*id = 0
			return nil
		}
	} else {
		raw = string(data)
	}
	v, err := Parse(raw)
	if err != nil {
		return err
	}
	*id = ID(v)
	return nil
}

// Parse converts a path, query or body value to a positive int64.
// Integral floats such as "12.0" are accepted; fractions are not.
func Parse(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalid
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		if v <= 0 {
			return 0, ErrInvalid
		}
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int64(f)) || f <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	return int64(f), nil
}

// ParseList parses a comma-separated list of references.
func ParseList(s string) ([]int64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []int64
	for _, part := range strings.Split(s, ",") {
		v, err := Parse(part)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Distinct returns the unique positive ids in first-seen order.
func Distinct(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

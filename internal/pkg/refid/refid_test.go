package refid

import (
	"encoding/json"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalAcceptsNumberAndStringForms(t *testing.T) {
	variants := []string{`7`, `"7"`, `" 7 "`, `7.0`, `"7.0"`}
	for _, v := range variants {
		var payload struct {
			DepartmentID ID `json:"department_id"`
		}
		err := json.Unmarshal([]byte(`{"department_id":`+v+`}`), &payload)
		require.NoError(t, err, v)
		assert.Equal(t, ID(7), payload.DepartmentID, v)
	}
}

func TestUnmarshalEmptyForms(t *testing.T) {
	for _, v := range []string{`null`, `""`, `"  "`} {
		var id ID = 99
		require.NoError(t, json.Unmarshal([]byte(v), &id), v)
		assert.True(t, id.IsZero(), v)
	}
}

func TestUnmarshalRejectsInvalid(t *testing.T) {
	for _, v := range []string{`"abc"`, `-3`, `"0"`, `1.5`, `"2.25"`, `true`} {
		var id ID
		err := json.Unmarshal([]byte(v), &id)
		assert.Error(t, err, v)
	}
}

func TestMarshalIsNumeric(t *testing.T) {
	b, err := json.Marshal(struct {
		ID ID `json:"employee_id"`
	}{ID: 12})
	require.NoError(t, err)
	assert.JSONEq(t, `{"employee_id":12}`, string(b))
}

func TestParseMatchesAcrossRepresentations(t *testing.T) {
	// the same reference must normalise identically no matter how it arrives
	for n := int64(1); n <= 200; n++ {
		fromInt, err := Parse(strconv.FormatInt(n, 10))
		require.NoError(t, err)

		var fromJSONNumber, fromJSONString ID
		require.NoError(t, json.Unmarshal([]byte(strconv.FormatInt(n, 10)), &fromJSONNumber))
		require.NoError(t, json.Unmarshal([]byte(`"`+strconv.FormatInt(n, 10)+`"`), &fromJSONString))

		assert.Equal(t, n, fromInt)
		assert.Equal(t, n, fromJSONNumber.Int64())
		assert.Equal(t, n, fromJSONString.Int64())
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("")
	assert.True(t, errors.Is(err, ErrInvalid))
	_, err = Parse("x1")
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestParseList(t *testing.T) {
	ids, err := ParseList("1, 2,3")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids)

	_, err = ParseList("1,a")
	assert.Error(t, err)
}

func TestDistinct(t *testing.T) {
	assert.Equal(t, []int64{3, 1, 2}, Distinct([]int64{3, 1, 3, 0, 2, 1, -4}))
	assert.Empty(t, Distinct(nil))
}

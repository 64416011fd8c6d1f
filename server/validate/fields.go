// Concrete field rules: string, email, phone, date, birthday, gender,
// client ids and the raw arguments object.

package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"
)

// DateLayout is the wire format of all date fields.
const DateLayout = "02.01.2006"

// MaxAge limits how far in the past a birthday may be.
const MaxAge = 70

// asInt extracts an integral JSON number. Accepts json.Number (decoder with
// UseNumber), float64 (plain decoder) and Go ints (tests, seed data).
func asInt(raw interface{}) (int64, bool) {
	switch v := raw.(type) {
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case float64:
		n := int64(v)
		return n, float64(n) == v
	case int:
		return int64(v), true
	case int64:
		return v, true
	}
	return 0, false
}

type stringRule struct {
	dst **string
}

// String declares a plain string argument stored into dst.
func String(dst **string) Rule {
	return stringRule{dst}
}

func (stringRule) Empty(raw interface{}) bool {
	s, ok := raw.(string)
	return ok && s == ""
}

func (r stringRule) Set(raw interface{}) error {
	s, err := asString(raw)
	if err != nil {
		return err
	}
	*r.dst = &s
	return nil
}

type emailRule struct {
	dst **string
}

// Email declares an email argument: a string containing '@'.
func Email(dst **string) Rule {
	return emailRule{dst}
}

func (emailRule) Empty(raw interface{}) bool {
	s, ok := raw.(string)
	return ok && s == ""
}

func (r emailRule) Set(raw interface{}) error {
	s, err := asString(raw)
	if err != nil {
		return err
	}
	if !strings.Contains(s, "@") {
		return errors.New("must contain @")
	}
	*r.dst = &s
	return nil
}

type phoneRule struct {
	dst **string
}

// Phone declares a phone argument: a string or an integer of exactly 11
// digits with the leading digit 7. The canonical string form is stored.
func Phone(dst **string) Rule {
	return phoneRule{dst}
}

func (phoneRule) Empty(raw interface{}) bool {
	s, ok := raw.(string)
	return ok && s == ""
}

func (r phoneRule) Set(raw interface{}) error {
	var s string
	switch v := raw.(type) {
	case string:
		s = v
	default:
		n, ok := asInt(raw)
		if !ok {
			return fmt.Errorf("must be a string or an integer, got %T", raw)
		}
		s = fmt.Sprintf("%d", n)
	}
	if len(s) != 11 {
		return errors.New("must be 11 digits long")
	}
	if s[0] != '7' {
		return errors.New("must start with 7")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return errors.New("must contain digits only")
		}
	}
	// The stored canonical form is the E.164 digits as libphonenumber
	// renders them, not the raw input.
	num, err := phonenumbers.Parse("+"+s, "")
	if err != nil {
		return errors.New("not a parseable phone number")
	}
	canonical := strings.TrimPrefix(phonenumbers.Format(num, phonenumbers.E164), "+")
	*r.dst = &canonical
	return nil
}

type dateRule struct {
	dst **time.Time
}

// Date declares a date argument in DD.MM.YYYY format.
func Date(dst **time.Time) Rule {
	return dateRule{dst}
}

func (dateRule) Empty(raw interface{}) bool {
	s, ok := raw.(string)
	return ok && s == ""
}

func (r dateRule) Set(raw interface{}) error {
	s, err := asString(raw)
	if err != nil {
		return err
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return errors.New("must be a date in DD.MM.YYYY format")
	}
	*r.dst = &d
	return nil
}

type birthdayRule struct {
	dst **time.Time
}

// Birthday declares a date argument which must be within MaxAge years of today.
func Birthday(dst **time.Time) Rule {
	return birthdayRule{dst}
}

func (birthdayRule) Empty(raw interface{}) bool {
	s, ok := raw.(string)
	return ok && s == ""
}

func (r birthdayRule) Set(raw interface{}) error {
	var d *time.Time
	if err := (dateRule{&d}).Set(raw); err != nil {
		return err
	}
	if yearsSince(*d, time.Now()) >= MaxAge {
		return fmt.Errorf("age must be less than %d years", MaxAge)
	}
	*r.dst = d
	return nil
}

// yearsSince counts full years between the two dates.
func yearsSince(from, to time.Time) int {
	years := to.Year() - from.Year()
	if to.Month() < from.Month() || (to.Month() == from.Month() && to.Day() < from.Day()) {
		years--
	}
	return years
}

type genderRule struct {
	dst **int
}

// Gender declares an integer argument limited to 0 (unknown), 1 (male),
// 2 (female). Zero is a valid present value, not an empty one.
func Gender(dst **int) Rule {
	return genderRule{dst}
}

func (genderRule) Empty(interface{}) bool {
	// Numbers have no empty form.
	return false
}

func (r genderRule) Set(raw interface{}) error {
	n, ok := asInt(raw)
	if !ok {
		return fmt.Errorf("must be an integer, got %T", raw)
	}
	if n < 0 || n > 2 {
		return errors.New("must be one of 0, 1, 2")
	}
	g := int(n)
	*r.dst = &g
	return nil
}

type clientIDsRule struct {
	dst *[]int64
}

// ClientIDs declares a non-empty list of integer client ids.
func ClientIDs(dst *[]int64) Rule {
	return clientIDsRule{dst}
}

func (clientIDsRule) Empty(raw interface{}) bool {
	list, ok := raw.([]interface{})
	return ok && len(list) == 0
}

func (r clientIDsRule) Set(raw interface{}) error {
	list, ok := raw.([]interface{})
	if !ok {
		return fmt.Errorf("must be a list, got %T", raw)
	}
	ids := make([]int64, len(list))
	for i, el := range list {
		n, ok := asInt(el)
		if !ok {
			return errors.New("must contain integers only")
		}
		ids[i] = n
	}
	*r.dst = ids
	return nil
}

type argumentsRule struct {
	dst *map[string]interface{}
}

// Arguments declares a raw JSON object argument, the per-method argument
// mapping of the request envelope.
func Arguments(dst *map[string]interface{}) Rule {
	return argumentsRule{dst}
}

func (argumentsRule) Empty(raw interface{}) bool {
	m, ok := raw.(map[string]interface{})
	return ok && len(m) == 0
}

func (r argumentsRule) Set(raw interface{}) error {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return fmt.Errorf("must be an object, got %T", raw)
	}
	*r.dst = m
	return nil
}
